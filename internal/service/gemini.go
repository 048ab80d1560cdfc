package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrGenerationFailed = errors.New("text generation request failed")

// Gemini calls the external text-generation endpoint. The service is
// treated as opaque: send a prompt, get article HTML back.
type Gemini struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func NewGemini() *Gemini {
	return &Gemini{
		Endpoint: viper.GetString("gemini.endpoint"),
		APIKey:   viper.GetString("gemini.api_key"),
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GenerateBlogText asks the generation service for an article of
// roughly wordcount words on the given topic and returns the HTML
// fragment, with any markdown code fences stripped.
func (g *Gemini) GenerateBlogText(ctx context.Context, prompt string, wordcount int) (string, error) {
	if g.APIKey == "" {
		return "", ErrGenerationFailed
	}

	systemPrompt := fmt.Sprintf(`You are a blog content writer.
Please write a blog-style article of approximately %d words.
The topic is: %s
The tone should be friendly, informative, and helpful.
Output ONLY valid HTML code for the article content, using tags like <h2>, <h3>, <p>, <ul>, <li>, <pre>, <code>, <strong>, etc.
DO NOT include <!DOCTYPE html>, <html>, <head>, <title>, or <body> tags. Do not include `+"```html and ```"+` markers.
Return ONLY the article content HTML.
Do NOT use Markdown.`, wordcount, prompt)

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: systemPrompt}}}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrGenerationFailed, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	var res geminiResponse
	if err := json.Unmarshal(respBody, &res); err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	return stripFences(res.Candidates[0].Content.Parts[0].Text), nil
}

// stripFences removes the markdown code fences the model sometimes
// wraps its output in despite being told not to.
func stripFences(text string) string {
	text = strings.TrimSpace(text)

	if after, ok := strings.CutPrefix(text, "```html"); ok {
		text = strings.TrimLeft(after, "\n")
	}
	if before, ok := strings.CutSuffix(text, "```"); ok {
		text = strings.TrimRight(before, " \n")
	}

	return text
}
