package auth

import (
	"net/http"
	"strings"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"
	"quillbit/blog-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type signupBody struct {
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Address         string   `json:"address"`
	PhoneNumber     string   `json:"phone_number"`
	SecurityAnswers []string `json:"security_answers"`
}

// Signup registers a new account. The three security answers are
// required and are bound to the three canonical questions in question
// id order; they are what the password recovery flow later checks.
func Signup(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data signupBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Username is required",
			"requestID": requestID,
		})
		return
	}

	for _, check := range []error{
		validators.EmailValidator(data.Email),
		validators.PasswordValidator(data.Password),
		validators.PhoneValidator(data.PhoneNumber),
	} {
		if check != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     check.Error(),
				"requestID": requestID,
			})
			return
		}
	}

	if len(data.SecurityAnswers) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Exactly 3 security answers are required",
			"requestID": requestID,
		})
		return
	}

	var taken bool
	r := d.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ? OR username = ?", data.Email, data.Username).
		First(&taken)
	if r.Error != nil && r.Error != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if taken {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "A user with this username or email already exists",
			"requestID": requestID,
		})
		return
	}

	var questions []model.SecurityQuestion
	if err := d.DB.Order("id").Limit(3).Find(&questions).Error; err != nil || len(questions) < 3 {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "System security questions are not initialized properly",
			"requestID": requestID,
		})

		zap.L().Error("Security questions missing", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	answers := make([]model.SecurityAnswer, 0, 3)
	for i, q := range questions {
		answers = append(answers, model.SecurityAnswer{
			QuestionID: q.ID,
			Answer:     strings.TrimSpace(data.SecurityAnswers[i]),
		})
	}

	user := model.User{
		Username:        data.Username,
		Email:           data.Email,
		PasswordHash:    hash,
		FirstName:       data.FirstName,
		LastName:        data.LastName,
		Address:         data.Address,
		PhoneNumber:     data.PhoneNumber,
		IsActive:        true,
		Profile:         model.Profile{},
		SecurityAnswers: answers,
	}

	if err := d.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
	})
}
