package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/transport"
)

const (
	DefaultSheetName = "Volunteers"
	DefaultRange     = "A2:C"
	defaultBaseURL   = "https://sheets.googleapis.com/v4"
)

type client struct {
	apiKey        string
	spreadsheetID string
	sheetName     string
	rangeA1       string
	baseURL       string
	hc            *http.Client
}

func NewClient(apiKey, spreadsheetID, sheetName, rangeA1 string, hc *http.Client) (*client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sheets api key is empty")
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is empty")
	}
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	if rangeA1 == "" {
		rangeA1 = DefaultRange
	}
	return &client{
		apiKey:        apiKey,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		rangeA1:       rangeA1,
		baseURL:       defaultBaseURL,
		hc:            hc,
	}, nil
}

// WithBaseURL points the client at another host, used by tests.
func (c *client) WithBaseURL(baseURL string) *client {
	c.baseURL = baseURL
	return c
}

// FetchVolunteers reads the volunteer rows of the configured sheet range.
func (c *client) FetchVolunteers(ctx context.Context) ([]domain.VolunteerRecord, error) {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s?key=%s",
		c.baseURL,
		url.PathEscape(c.spreadsheetID),
		url.PathEscape(c.sheetName+"!"+c.rangeA1),
		url.QueryEscape(c.apiKey),
	)

	raw, err := transport.Do(ctx, c.hc, transport.Get(endpoint))
	if err != nil {
		return nil, fmt.Errorf("fetching volunteers sheet: %w", err)
	}

	slog.DebugContext(ctx, "Volunteers sheet received", "sizeBytes", len(raw))

	return Decode(raw), nil
}
