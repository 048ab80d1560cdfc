// Package recovery implements the security-question password recovery
// flow. The three steps are stateless: each request is validated
// independently and progression is proven only by possession of the
// right inputs, ending in a signed, time-bound reset token.
package recovery

import (
	"net/http"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type startBody struct {
	Email string `json:"email"`
}

type questionOut struct {
	ID           uint   `json:"id"`
	QuestionText string `json:"question_text"`
}

// Start returns the security questions the user has answered, ordered
// by question id and never including the stored answers. It has no
// side effects and may be called any number of times.
//
// Note the flow reveals "User not found." here while Verify keeps its
// answer errors generic; that asymmetry is inherited behavior, kept
// on purpose.
func Start(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data startBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email is required.",
			"requestID": requestID,
		})
		return
	}

	user, ok := lookupUser(c, d, data.Email)
	if !ok {
		return
	}

	var answers []model.SecurityAnswer
	err := d.DB.Preload("Question").
		Where("user_id = ?", user.ID).
		Order("question_id").
		Find(&answers).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load security answers", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	questions := make([]questionOut, 0, len(answers))
	for _, a := range answers {
		questions = append(questions, questionOut{
			ID:           a.Question.ID,
			QuestionText: a.Question.QuestionText,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": questions,
	})
}

// lookupUser finds a user by exact email match and writes the error
// response itself when it can't.
func lookupUser(c *gin.Context, d *internal.Deps, email string) (*model.User, bool) {
	requestID := c.GetString("requestID")

	var user model.User
	err := d.DB.Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "User not found.",
			"requestID": requestID,
		})
		return nil, false
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return nil, false
	}

	return &user, true
}
