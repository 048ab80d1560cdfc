package middleware

import (
	"net/http"
	"strings"

	"quillbit/blog-api/internal/model"
	"quillbit/blog-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewJWTMiddleware authenticates requests with a bearer access token.
// On success the user's ID and admin flag are placed in the context.
func NewJWTMiddleware(d *gorm.DB, issuer *security.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Missing Authorization header",
				"requestID": requestID,
			})
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Malformed Authorization header",
				"requestID": requestID,
			})
			return
		}

		claims, err := issuer.Verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "token_invalid",
				"requestID": requestID,
			})
			return
		}

		if claims.TokenType != security.TokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "token_invalid",
				"requestID": requestID,
			})
			return
		}

		// The account may have been deleted or deactivated after the
		// token was issued
		var user model.User
		if err := d.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"error":     "user_not_found",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if user exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "account_disabled",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", user.ID)
		c.Set("isAdmin", user.IsAdminUser)
		c.Next()
	}
}

// AdminOnly allows only users whose admin flag is set. Must run after
// the JWT middleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("isAdmin") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Admin access required",
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Next()
	}
}
