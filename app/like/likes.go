// Package like contains the post like endpoints
package like

import (
	"net/http"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type likeBody struct {
	PostID uint `json:"post"`
}

// List returns the caller's likes, optionally narrowed to one post.
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	q := d.DB.Where("user_id = ?", c.GetUint("userID"))
	if post := c.Query("post"); post != "" {
		q = q.Where("post_id = ?", post)
	}

	var likes []model.Like
	if err := q.Find(&likes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list likes", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, likes)
}

// Create records a like. Liking the same post twice is an input error.
func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")
	userID := c.GetUint("userID")

	var data likeBody
	if err := c.ShouldBind(&data); err != nil || data.PostID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Post is required",
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

	var exists bool
	r := d.DB.Model(model.Like{}).Select("count(*) > 0").
		Where("user_id = ? AND post_id = ?", userID, data.PostID).First(&exists)
	if r.Error != nil && r.Error != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check like", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if exists {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "You have already liked this post",
			"requestID": requestID,
		})
		return
	}

	like := model.Like{UserID: userID, PostID: data.PostID}
	if err := d.DB.Create(&like).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create like", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, like)
}

// Delete removes a like; only the like's owner may remove it.
func Delete(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var like model.Like
	if err := d.DB.First(&like, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Like not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch like", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if like.UserID != c.GetUint("userID") {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "You can only remove your own like",
			"requestID": requestID,
		})
		return
	}

	if err := d.DB.Delete(&like).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete like", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Like removed",
	})
}
