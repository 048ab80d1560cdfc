package post

import (
	"net/http"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Highlighted returns the six newest and the six most liked published
// posts. The route sits behind the response cache, anonymous traffic
// hammers it.
func Highlighted(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var latest []model.Post
	err := preloaded(d.DB).
		Where("is_published = ?", true).
		Order("created_at desc").
		Limit(6).
		Find(&latest).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load latest posts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var mostLiked []model.Post
	err = preloaded(d.DB).
		Joins("LEFT JOIN likes ON likes.post_id = posts.id").
		Where("is_published = ?", true).
		Group("posts.id").
		Order("count(likes.id) desc, created_at desc").
		Limit(6).
		Find(&mostLiked).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load most liked posts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID := c.GetUint("userID")

	renderAll := func(posts []model.Post) []postOut {
		out := make([]postOut, 0, len(posts))
		for i := range posts {
			out = append(out, render(d, &posts[i], userID, false))
		}
		return out
	}

	c.JSON(http.StatusOK, gin.H{
		"latest":     renderAll(latest),
		"most_liked": renderAll(mostLiked),
	})
}
