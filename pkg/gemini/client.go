package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
	"github.com/dskvich/vetaid-telegram-bot/pkg/transport"
)

const (
	DefaultModel   = "gemini-2.0-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

type client struct {
	apiKey  string
	model   string
	baseURL string
	hc      *http.Client
}

func NewClient(apiKey, model string, hc *http.Client) (*client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	if model == "" {
		model = DefaultModel
	}
	return &client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		hc:      hc,
	}, nil
}

// WithBaseURL points the client at another host, used by tests.
func (c *client) WithBaseURL(baseURL string) *client {
	c.baseURL = baseURL
	return c
}

// Prompt is the instruction sent along with the animal photo.
func Prompt(injury string) string {
	return fmt.Sprintf("Provide veterinary first aid for this animal with: %s. Be concise (max 150 words).", injury)
}

// Advise asks the model for first aid instructions. Transport failures are returned,
// an unreadable answer is replaced by the fallback text.
func (c *client) Advise(ctx context.Context, image domain.PendingImage, injury string) (string, error) {
	req, err := transport.PostJSON(c.endpoint(), NewRequest(image, Prompt(injury)))
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "Calling Gemini", "model", c.model, "imageSizeBytes", len(image.Data))

	raw, err := transport.Do(ctx, c.hc, req)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	return DecodeResponse(raw), nil
}

func (c *client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
}

// NewRequest builds the generateContent body: the image part followed by the prompt part.
func NewRequest(image domain.PendingImage, prompt string) generateContentRequest {
	return generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MIMEType: image.MIMEType, Data: image.Base64()}},
				{Text: prompt},
			},
		}},
	}
}

// DecodeResponse returns the text of the first part of the first candidate.
func DecodeResponse(raw []byte) string {
	var resp generateContentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		slog.Warn("Failed to parse Gemini response", logger.Err(err))
		return domain.MsgCouldNotParse
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return domain.MsgCouldNotParse
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == nil {
		return domain.MsgCouldNotParse
	}

	return *parts[0].Text
}
