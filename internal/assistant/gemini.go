package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	http  *resty.Client
	model string
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiClient creates a client for the given model.
func NewGeminiClient(baseURL, apiKey, model string, timeout time.Duration) *GeminiClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", apiKey)

	// Only server-side trouble is worth retrying; 4xx (bad key, quota) is final.
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= 500
	})

	return &GeminiClient{http: client, model: model}
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	var out geminiResponse
	var apiErr geminiError

	resp, err := g.http.R().
		SetContext(ctx).
		SetBody(geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}).
		SetResult(&out).
		SetError(&apiErr).
		SetPathParam("model", g.model).
		Post("/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini error %d: %s", resp.StatusCode(), apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini error %d: %s", resp.StatusCode(), resp.String())
	}

	if len(out.Candidates) == 0 {
		return "", nil
	}
	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}
