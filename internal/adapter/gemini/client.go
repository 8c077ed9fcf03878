package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"vet-assistant-relay/internal/domain"
	"vet-assistant-relay/internal/usecase/completion"
)

// Client sends conversations to the Gemini API. System turns become the
// system instruction; assistant turns map to the "model" role.
type Client struct {
	models *genai.Models
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{models: client.Models}, nil
}

func (c *Client) Complete(ctx context.Context, req completion.Request) (string, error) {
	system, contents := toContents(req.Messages)

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", classify(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", completion.ErrTransient)
	}
	return resp.Text(), nil
}

func toContents(msgs []completion.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleSystem:
			system = append(system, m.Content)
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return fmt.Errorf("%w: gemini status %d: %w", completion.ErrTransient, apiErr.Code, err)
		}
		return fmt.Errorf("gemini status %d: %w", apiErr.Code, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: gemini request: %w", completion.ErrTransient, err)
}

var _ completion.Provider = (*Client)(nil)
