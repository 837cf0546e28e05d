package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/gemini"
)

const (
	DefaultModel = "gpt-4o-mini"
	maxTokens    = 400
)

type client struct {
	api   *openai.Client
	model string
}

// NewClient builds a chat completion client. A nil hc keeps the library's default HTTP client.
func NewClient(token, model, baseURL string, hc *http.Client) (*client, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if hc != nil {
		cfg.HTTPClient = hc
	}

	return &client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}, nil
}

// Advise asks a vision chat model for first aid instructions, using the same prompt as Gemini.
func (c *client) Advise(ctx context.Context, image domain.PendingImage, injury string) (string, error) {
	slog.InfoContext(ctx, "Calling OpenAI", "model", c.model, "imageSizeBytes", len(image.Data))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    "data:" + image.MIMEType + ";base64," + image.Base64(),
						Detail: openai.ImageURLDetailAuto,
					},
				},
				{Type: openai.ChatMessagePartTypeText, Text: gemini.Prompt(injury)},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", toRequestError(err))
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return domain.MsgCouldNotParse, nil
	}

	return resp.Choices[0].Message.Content, nil
}

func toRequestError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.RequestError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.RequestError{StatusCode: reqErr.HTTPStatusCode}
	}
	return err
}
