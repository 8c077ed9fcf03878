package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openaiapi "github.com/sashabaranov/go-openai"

	"vet-assistant-relay/internal/usecase/completion"
)

type Client struct {
	api *openaiapi.Client
}

// NewClient builds a chat completions client. An empty baseURL targets the
// public OpenAI endpoint; any OpenAI-compatible server works otherwise.
func NewClient(token, baseURL string) *Client {
	cfg := openaiapi.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api: openaiapi.NewClientWithConfig(cfg),
	}
}

func (c *Client) Complete(ctx context.Context, req completion.Request) (string, error) {
	apiReq := openaiapi.ChatCompletionRequest{
		Model:               req.Model,
		Messages:            toAPIMessages(req.Messages),
		Temperature:         req.Temperature,
		MaxCompletionTokens: req.MaxTokens,
		Stream:              false,
	}

	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", completion.ErrTransient)
	}

	return resp.Choices[0].Message.Content, nil
}

func toAPIMessages(msgs []completion.Message) []openaiapi.ChatCompletionMessage {
	res := make([]openaiapi.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, openaiapi.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return res
}

// classify marks rate limits, server errors and transport failures as
// transient; everything else (bad key, bad request) is returned as is.
func classify(err error) error {
	var apiErr *openaiapi.APIError
	if errors.As(err, &apiErr) {
		if isRetryableStatus(apiErr.HTTPStatusCode) {
			return fmt.Errorf("%w: openai status %d: %w", completion.ErrTransient, apiErr.HTTPStatusCode, err)
		}
		return fmt.Errorf("openai status %d: %w", apiErr.HTTPStatusCode, err)
	}

	var reqErr *openaiapi.RequestError
	if errors.As(err, &reqErr) {
		if isRetryableStatus(reqErr.HTTPStatusCode) {
			return fmt.Errorf("%w: openai status %d: %w", completion.ErrTransient, reqErr.HTTPStatusCode, err)
		}
		return fmt.Errorf("openai status %d: %w", reqErr.HTTPStatusCode, err)
	}

	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: openai request: %w", completion.ErrTransient, err)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusRequestTimeout ||
		code >= http.StatusInternalServerError
}

var _ completion.Provider = (*Client)(nil)
