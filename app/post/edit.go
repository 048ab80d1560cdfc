package post

import (
	"html"
	"net/http"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"
	"quillbit/blog-api/pkg/guard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type postPatch struct {
	Title       *string   `json:"title"`
	Content     *string   `json:"content"`
	Cover       *string   `json:"cover"`
	IsPublished *bool     `json:"is_published"`
	Tags        *[]string `json:"tags"`
}

// loadOwned fetches the post by slug and checks the caller may touch
// it. Writes its own error responses.
func loadOwned(c *gin.Context, d *internal.Deps) (*model.Post, bool) {
	requestID := c.GetString("requestID")

	var post model.Post
	err := d.DB.Where("slug = ?", c.Param("slug")).First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Post not found",
				"requestID": requestID,
			})
			return nil, false
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch post", zap.Error(err), zap.String("requestID", requestID))
		return nil, false
	}

	if post.AuthorID != c.GetUint("userID") && !c.GetBool("isAdmin") {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "You can only edit your own posts",
			"requestID": requestID,
		})
		return nil, false
	}

	return &post, true
}

// Update edits a post owned by the caller (or any post for an admin).
// The slug never changes after creation.
func Update(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	post, ok := loadOwned(c, d)
	if !ok {
		return
	}

	var data postPatch
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Title != nil {
		if guard.ContainsSQLInjection(*data.Title) || guard.ContainsXSS(*data.Title) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Title contains unsafe content",
				"requestID": requestID,
			})
			return
		}
		post.Title = html.EscapeString(*data.Title)
	}

	if data.Content != nil {
		if guard.ContainsScriptMarkup(*data.Content) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Content contains unsafe content",
				"requestID": requestID,
			})
			return
		}
		post.Content = *data.Content
	}

	if data.Cover != nil {
		post.Cover = *data.Cover
	}

	if data.IsPublished != nil {
		post.IsPublished = *data.IsPublished
	}

	if err := d.DB.Save(post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Tags != nil {
		tags, err := resolveTags(d.DB, *data.Tags)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		if err := d.DB.Model(post).Association("Tags").Replace(tags); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to replace tags", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	var updated model.Post
	if err := preloaded(d.DB).First(&updated, post.ID).Error; err != nil {
		updated = *post
	}

	c.JSON(http.StatusOK, render(d, &updated, c.GetUint("userID"), false))
}

// Delete removes a post owned by the caller (or any post for an admin).
func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	post, ok := loadOwned(c, d)
	if !ok {
		return
	}

	if err := d.DB.Select("Comments", "Likes").Delete(post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted successfully",
	})
}
