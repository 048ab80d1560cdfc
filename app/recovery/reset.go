package recovery

import (
	"net/http"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type resetBody struct {
	ResetToken      string `json:"reset_token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Reset overwrites the password of the user bound to the reset token.
// Field validation runs before the token is even looked at, and every
// token problem, a deleted user included, collapses into the same
// generic error. The token carries no single-use marker: until it
// expires, presenting it again resets the password again.
func Reset(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data resetBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "All fields are required.",
			"requestID": requestID,
		})
		return
	}

	if data.ResetToken == "" || data.NewPassword == "" || data.ConfirmPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "All fields are required.",
			"requestID": requestID,
		})
		return
	}

	if data.NewPassword != data.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Passwords do not match.",
			"requestID": requestID,
		})
		return
	}

	if len(data.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Password must be at least 8 characters long.",
			"requestID": requestID,
		})
		return
	}

	claims, err := d.Tokens.Verify(data.ResetToken)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid or expired reset token.",
			"requestID": requestID,
		})
		return
	}

	var user model.User
	if err := d.DB.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid or expired reset token.",
			"requestID": requestID,
		})
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash new password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.DB.Model(&user).Update("password_hash", hash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password reset successful.",
	})
}
