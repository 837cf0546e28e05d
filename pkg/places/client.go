package places

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
	"github.com/dskvich/vetaid-telegram-bot/pkg/transport"
)

const (
	DefaultRadius  = 5000
	DefaultType    = "veterinary_care"
	defaultBaseURL = "https://maps.googleapis.com/maps/api/place"
)

type nearbySearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
		PlaceID  string `json:"place_id"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type client struct {
	apiKey    string
	radius    int
	placeType string
	baseURL   string
	hc        *http.Client
}

func NewClient(apiKey string, radius int, placeType string, hc *http.Client) (*client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("places api key is empty")
	}
	if radius <= 0 {
		radius = DefaultRadius
	}
	if placeType == "" {
		placeType = DefaultType
	}
	return &client{
		apiKey:    apiKey,
		radius:    radius,
		placeType: placeType,
		baseURL:   defaultBaseURL,
		hc:        hc,
	}, nil
}

// WithBaseURL points the client at another host, used by tests.
func (c *client) WithBaseURL(baseURL string) *client {
	c.baseURL = baseURL
	return c
}

// SearchNearby lists places of the configured type around loc, in API order.
func (c *client) SearchNearby(ctx context.Context, loc domain.Location) ([]domain.PlaceResult, error) {
	q := url.Values{}
	q.Set("location", loc.String())
	q.Set("radius", strconv.Itoa(c.radius))
	q.Set("type", c.placeType)
	q.Set("key", c.apiKey)
	endpoint := c.baseURL + "/nearbysearch/json?" + q.Encode()

	slog.InfoContext(ctx, "Searching nearby places", "location", loc.String(), "radius", c.radius, "type", c.placeType)

	raw, err := transport.Do(ctx, c.hc, transport.Get(endpoint))
	if err != nil {
		return nil, fmt.Errorf("searching nearby places: %w", err)
	}

	if err := apiStatusError(raw); err != nil {
		return nil, err
	}

	return DecodeResponse(raw), nil
}

// apiStatusError reports API level failures that arrive with a 200 status.
func apiStatusError(raw []byte) error {
	var resp nearbySearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil
	}
	switch resp.Status {
	case "", "OK", "ZERO_RESULTS":
		return nil
	}
	msg := resp.Status
	if resp.ErrorMessage != "" {
		msg += ": " + resp.ErrorMessage
	}
	return &domain.RequestError{Message: msg}
}

// DecodeResponse maps a nearby search payload to places. Unreadable payloads yield no places.
func DecodeResponse(raw []byte) []domain.PlaceResult {
	var resp nearbySearchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		slog.Warn("Failed to parse places response", logger.Err(err))
		return nil
	}

	results := make([]domain.PlaceResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, domain.PlaceResult{
			Name:      r.Name,
			Address:   r.Vicinity,
			PlaceID:   r.PlaceID,
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		})
	}
	return results
}
