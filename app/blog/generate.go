// Package blog contains the AI-assisted blog text generation endpoint
package blog

import (
	"net/http"

	"quillbit/blog-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type generateBody struct {
	Wordcount        int    `json:"wordcount"`
	PromptSuggestion string `json:"prompt_suggestion"`
}

// Generate asks the external text-generation service for an article
// and returns the HTML fragment. The service is opaque to us; any
// failure surfaces as a 502 tagged with the request id.
func Generate(c *gin.Context, d *internal.Deps) {
	requestID := c.GetString("requestID")

	var data generateBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.Wordcount < 50 || data.Wordcount > 2000 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "wordcount must be between 50 and 2000",
			"requestID": requestID,
		})
		return
	}

	if data.PromptSuggestion == "" || len(data.PromptSuggestion) > 200 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "prompt_suggestion must be between 1 and 200 characters",
			"requestID": requestID,
		})
		return
	}

	text, err := d.Gemini.GenerateBlogText(c.Request.Context(), data.PromptSuggestion, data.Wordcount)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "GENERATION_FAILED",
			"request_id": requestID,
		})

		zap.L().Error("Blog expansion failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blog_text": text,
	})
}
