// Package auth contains the session endpoints: signup, login, logout,
// token refresh and Google one-tap login
package auth

import (
	"net/http"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks credentials and hands out a refresh/access token pair.
// The username field accepts an email address as well.
func Login(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Username == "" || data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Username and password are required",
			"requestID": requestID,
		})
		return
	}

	var user model.User
	err := d.DB.Where("username = ?", data.Username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		err = d.DB.Where("email = ?", data.Username).First(&user).Error
	}

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Username or email does not exist",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Accounts created through social login carry an unusable hash;
	// a parse failure is just a failed credential check
	ok, err := d.Argon.VerifyPasswd(data.Password, user.PasswordHash)
	if err != nil {
		zap.L().Debug("Stored hash not verifiable", zap.Error(err), zap.String("requestID", requestID))
		ok = false
	}

	if !ok || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Username/email or password is incorrect",
			"requestID": requestID,
		})
		return
	}

	refresh, err := d.Tokens.IssueRefresh(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue refresh token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	access, err := d.Tokens.IssueAccess(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue access token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// The entry is advisory cleanup state, a cache hiccup must not
	// fail the login
	if err := d.Sessions.RecordAccess(c.Request.Context(), user.ID, access, d.Tokens.AccessTTL()); err != nil {
		zap.L().Warn("Failed to record access token hash", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"refresh":       refresh,
		"access":        access,
		"username":      user.Username,
		"email":         user.Email,
		"is_admin_user": user.IsAdminUser,
	})
}
