// Package admin contains the admin panel endpoints
package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListUsers returns every account.
func ListUsers(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var users []model.User
	if err := d.DB.Order("id").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list users", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, users)
}

type adminStatusBody struct {
	UserID      uint            `json:"user_id"`
	IsAdminUser json.RawMessage `json:"is_admin_user"`
}

// parseFlag accepts a JSON bool as well as the string forms clients
// have historically sent ("true"/"1"/"yes" and friends).
func parseFlag(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(s) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
	}

	return false, fmt.Errorf("is_admin_user must be a boolean")
}

// SetAdminFlag updates a user's admin flag. The single-field write is
// wrapped in a transaction for write atomicity.
func SetAdminFlag(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data adminStatusBody
	if err := c.ShouldBind(&data); err != nil || data.UserID == 0 || len(data.IsAdminUser) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "user_id and is_admin_user are required",
			"requestID": requestID,
		})
		return
	}

	flag, err := parseFlag(data.IsAdminUser)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var user model.User
	if err := d.DB.First(&user, data.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     fmt.Sprintf("User with ID %d not found", data.UserID),
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&user).Update("is_admin_user", flag).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update admin flag", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"is_admin_user": flag,
	})
}

// DeleteUser removes an account and everything it owns. Admins cannot
// delete themselves.
func DeleteUser(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var user model.User
	if err := d.DB.First(&user, c.Param("user_id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     fmt.Sprintf("User with ID %s not found", c.Param("user_id")),
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.ID == c.GetUint("userID") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Cannot delete your own account",
			"requestID": requestID,
		})
		return
	}

	err := d.DB.Select("Profile", "Posts", "Comments", "Likes", "SecurityAnswers").
		Delete(&user).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User %s deleted successfully", user.Username),
	})
}
