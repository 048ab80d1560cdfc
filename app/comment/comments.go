// Package comment contains the comment endpoints
package comment

import (
	"net/http"
	"strconv"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"
	"quillbit/blog-api/pkg/guard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type commentBody struct {
	PostID  uint   `json:"post"`
	Content string `json:"content"`
}

// List returns comments newest first, optionally filtered by post or
// author id.
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	q := d.DB.Order("created_at desc")

	if post := c.Query("post"); post != "" {
		q = q.Where("post_id = ?", post)
	}

	if author := c.Query("author"); author != "" {
		q = q.Where("author_id = ?", author)
	}

	var comments []model.Comment
	if err := q.Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list comments", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, comments)
}

// Mine returns the caller's most recent comments. The limit parameter
// is clamped to 1..100 and defaults to 50.
func Mine(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		limit = 50
	}
	limit = max(1, min(limit, 100))

	var comments []model.Comment
	err = d.DB.Where("author_id = ?", c.GetUint("userID")).
		Order("created_at desc").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list own comments", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, comments)
}

// Create adds a comment authored by the caller.
func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data commentBody
	if err := c.ShouldBind(&data); err != nil || data.PostID == 0 || data.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Post and content are required",
			"requestID": requestID,
		})
		return
	}

	if guard.ContainsScriptMarkup(data.Content) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Content contains unsafe content",
			"requestID": requestID,
		})
		return
	}

	var post model.Post
	if err := d.DB.First(&post, data.PostID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Post not found",
			"requestID": requestID,
		})
		return
	}

	comment := model.Comment{
		PostID:   data.PostID,
		AuthorID: c.GetUint("userID"),
		Content:  data.Content,
	}

	if err := d.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create comment", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// loadOwned fetches a comment and checks the caller is its author or
// an admin.
func loadOwned(c *gin.Context, d *internal.Deps) (*model.Comment, bool) {
	requestID := c.GetString("requestID")

	var comment model.Comment
	if err := d.DB.First(&comment, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Comment not found",
				"requestID": requestID,
			})
			return nil, false
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch comment", zap.Error(err), zap.String("requestID", requestID))
		return nil, false
	}

	if comment.AuthorID != c.GetUint("userID") && !c.GetBool("isAdmin") {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "You can only modify your own comments",
			"requestID": requestID,
		})
		return nil, false
	}

	return &comment, true
}

// Update edits the caller's own comment.
func Update(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	comment, ok := loadOwned(c, d)
	if !ok {
		return
	}

	var data struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBind(&data); err != nil || data.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Content is required",
			"requestID": requestID,
		})
		return
	}

	if guard.ContainsScriptMarkup(data.Content) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Content contains unsafe content",
			"requestID": requestID,
		})
		return
	}

	comment.Content = data.Content
	if err := d.DB.Save(comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update comment", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete removes the caller's own comment (admins can remove any).
func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	comment, ok := loadOwned(c, d)
	if !ok {
		return
	}

	if err := d.DB.Delete(comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete comment", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}
