package auth

import (
	"net/http"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type logoutBody struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// Logout blacklists the refresh token and, when an access token is
// supplied, removes its revocation-support cache entry. The refresh
// token is mandatory; the access token is optional but must decode
// cleanly when present.
func Logout(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data logoutBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Refresh == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Missing refresh token",
			"requestID": requestID,
		})
		return
	}

	claims, err := d.Tokens.Verify(data.Refresh)
	if err != nil || claims.TokenType != security.TokenTypeRefresh {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid refresh token",
			"requestID": requestID,
		})
		return
	}

	if err := d.Sessions.BlacklistRefresh(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to blacklist refresh token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Access != "" {
		accessClaims, err := d.Tokens.Verify(data.Access)
		if err != nil {
			if err == security.ErrTokenExpired {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":     "Access token expired",
					"requestID": requestID,
				})
				return
			}

			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid access token",
				"requestID": requestID,
			})
			return
		}

		if err := d.Sessions.DropAccess(c.Request.Context(), accessClaims.UserID); err != nil {
			zap.L().Warn("Failed to drop access token hash", zap.Error(err), zap.String("requestID", requestID))
		}
	}

	c.JSON(http.StatusResetContent, gin.H{
		"message": "Logged out successfully",
	})
}
