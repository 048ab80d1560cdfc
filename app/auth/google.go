package auth

import (
	"net/http"
	"strings"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

type googleBody struct {
	Credential string `json:"credential"`
}

// GoogleLogin validates a Google one-tap ID token, creates the account
// on first sight and returns a token pair like a regular login.
func GoogleLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data googleBody
	if err := c.ShouldBind(&data); err != nil || data.Credential == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Missing credential",
			"requestID": requestID,
		})
		return
	}

	svc, err := oauth2.NewService(c.Request.Context(), option.WithHTTPClient(&http.Client{}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to build oauth2 service", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	info, err := svc.Tokeninfo().IdToken(data.Credential).Do()
	if err != nil || info.Audience != viper.GetString("google.client_id") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid token",
			"requestID": requestID,
		})
		return
	}

	if info.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email not available",
			"requestID": requestID,
		})
		return
	}

	user, err := findOrCreateGoogleUser(d.DB, info.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to get or create user", zap.Error(err), zap.String("requestID", requestID))
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

	if err := d.Sessions.RecordAccess(c.Request.Context(), user.ID, access, d.Tokens.AccessTTL()); err != nil {
		zap.L().Warn("Failed to record access token hash", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   access,
		"refresh": refresh,
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
		},
	})
}

func findOrCreateGoogleUser(db *gorm.DB, email string) (*model.User, error) {
	var user model.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	username := strings.SplitN(email, "@", 2)[0]

	var taken bool
	if err := db.Model(model.User{}).Select("count(*) > 0").
		Where("username = ?", username).First(&taken).Error; err == nil && taken {
		suffix, err := gonanoid.Generate("0123456789", 4)
		if err != nil {
			return nil, err
		}
		username += suffix
	}

	// No usable password; recovery is impossible until the user fills
	// in security answers, which matches a social-only account
	user = model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "!",
		IsActive:     true,
		Profile:      model.Profile{},
	}

	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
