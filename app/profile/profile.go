// Package profile contains the user profile endpoints
package profile

import (
	"net/http"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func load(c *gin.Context, d *internal.Deps) (*model.Profile, bool) {
	requestID := c.GetString("requestID")
	userID := c.GetUint("userID")

	var prof model.Profile
	err := d.DB.Where(model.Profile{UserID: userID}).FirstOrCreate(&prof).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load profile", zap.Error(err), zap.String("requestID", requestID))
		return nil, false
	}

	return &prof, true
}

// Get returns the caller's profile alongside the basic account fields.
func Get(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	prof, ok := load(c, d)
	if !ok {
		return
	}

	var user model.User
	if err := d.DB.First(&user, c.GetUint("userID")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":      user.Username,
		"email":         user.Email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"address":       user.Address,
		"phone_number":  user.PhoneNumber,
		"is_admin_user": user.IsAdminUser,
		"profile":       prof,
	})
}

type profilePatch struct {
	Avatar   *string `json:"avatar"`
	Bio      *string `json:"bio"`
	Linkedin *string `json:"linkedin"`
	Github   *string `json:"github"`
	Facebook *string `json:"facebook"`
	Website  *string `json:"website"`
	XTwitter *string `json:"x_twitter"`
}

// Update edits the caller's profile. Absent fields are left untouched.
func Update(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	prof, ok := load(c, d)
	if !ok {
		return
	}

	var data profilePatch
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	apply(&prof.Avatar, data.Avatar)
	apply(&prof.Bio, data.Bio)
	apply(&prof.Linkedin, data.Linkedin)
	apply(&prof.Github, data.Github)
	apply(&prof.Facebook, data.Facebook)
	apply(&prof.Website, data.Website)
	apply(&prof.XTwitter, data.XTwitter)

	if err := d.DB.Save(prof).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update profile", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, prof)
}
