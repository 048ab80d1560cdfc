package auth

import (
	"net/http"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type refreshBody struct {
	Refresh string `json:"refresh"`
}

// Refresh exchanges a valid, non-blacklisted refresh token for a new
// access token.
func Refresh(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data refreshBody
	if err := c.ShouldBind(&data); err != nil || data.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Missing refresh token",
			"requestID": requestID,
		})
		return
	}

	claims, err := d.Tokens.Verify(data.Refresh)
	if err != nil || claims.TokenType != security.TokenTypeRefresh {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid refresh token",
			"requestID": requestID,
		})
		return
	}

	blacklisted, err := d.Sessions.IsRefreshBlacklisted(c.Request.Context(), claims.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check refresh blacklist", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if blacklisted {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid refresh token",
			"requestID": requestID,
		})
		return
	}

	access, err := d.Tokens.IssueAccess(claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue access token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.Sessions.RecordAccess(c.Request.Context(), claims.UserID, access, d.Tokens.AccessTTL()); err != nil {
		zap.L().Warn("Failed to record access token hash", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"access": access,
	})
}
