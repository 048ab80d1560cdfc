package recovery

import (
	"fmt"
	"net/http"
	"strings"

	"quillbit/blog-api/internal"
	"quillbit/blog-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type answerIn struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
}

type verifyBody struct {
	Email   string     `json:"email"`
	Answers []answerIn `json:"answers"`
}

// Verify checks the submitted security answers against what the user
// stored. A question id with no stored answer fails immediately and
// names the id; a wrong answer fails with a deliberately generic
// message that never says which pair mismatched. Full success issues
// the reset token.
func Verify(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data verifyBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" || len(data.Answers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email and answers are required.",
			"requestID": requestID,
		})
		return
	}

	user, ok := lookupUser(c, d, data.Email)
	if !ok {
		return
	}

	for _, ans := range data.Answers {
		var stored model.SecurityAnswer
		err := d.DB.Where("user_id = ? AND question_id = ?", user.ID, ans.QuestionID).
			First(&stored).Error
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     fmt.Sprintf("Invalid question id: %d", ans.QuestionID),
				"requestID": requestID,
			})
			return
		}

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to load stored answer", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		// The submitted value is trimmed, the stored one is compared
		// as stored
		submitted := strings.TrimSpace(ans.Answer)
		if !strings.EqualFold(stored.Answer, submitted) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "One or more answers are incorrect.",
				"requestID": requestID,
			})
			return
		}
	}

	token, err := d.Tokens.IssueReset(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue reset token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Security answers verified.",
		"reset_token": token,
	})
}
