// Package captcha solves the arithmetic image CAPTCHAs the court portals
// gate their search forms behind. The image is forwarded to a vision-capable
// model on an OpenAI-compatible endpoint with a constrained instruction; the
// first numeric token in the reply is the answer.
package captcha

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const solveInstruction = "This image contains a simple arithmetic expression or a short code. " +
	"Read it and reply with only the result or the code, nothing else. " +
	"If it is an expression like 5+3, reply with just the computed number."

var numericTokenRe = regexp.MustCompile(`-?\d+`)

// Solver sends CAPTCHA images to an external vision model. The zero value is
// an unconfigured solver whose Solve always returns "".
type Solver struct {
	client *openai.Client
	model  string
}

// NewSolver creates a solver against an OpenAI-compatible endpoint. Pass an
// empty apiKey to leave the solver unconfigured.
func NewSolver(apiKey, baseURL, model string) *Solver {
	if apiKey == "" {
		return &Solver{}
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Solver{client: openai.NewClientWithConfig(cfg), model: model}
}

// Configured reports whether a backing vision service is available
func (s *Solver) Configured() bool {
	return s != nil && s.client != nil
}

// Solve returns the answer text for a challenge image, or "" when the
// service is unconfigured, the request fails, or the reply carries no
// numeric token. Callers treat "" as "could not solve" and apply their own
// retry policy; it is never a hard failure.
func (s *Solver) Solve(ctx context.Context, image []byte) string {
	if !s.Configured() || len(image) == 0 {
		return ""
	}

	dataURL := fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(image))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: 20,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: solveInstruction},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	})
	if err != nil {
		zap.S().Warnw("captcha solve request failed", "error", err)
		return ""
	}
	if len(resp.Choices) == 0 {
		return ""
	}

	return ExtractAnswer(resp.Choices[0].Message.Content)
}

// ExtractAnswer pulls the first numeric token out of a model reply, ignoring
// any surrounding prose
func ExtractAnswer(reply string) string {
	return numericTokenRe.FindString(reply)
}
