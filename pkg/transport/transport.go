package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
)

const maxErrorBodyBytes = 512

// Request describes a single call to a remote API.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

func Get(url string) Request {
	return Request{Method: http.MethodGet, URL: url}
}

// PostJSON marshals payload into the body of a POST request.
func PostJSON(url string, payload any) (Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Request{}, fmt.Errorf("marshaling request: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	return Request{Method: http.MethodPost, URL: url, Header: header, Body: body}, nil
}

// Do performs the request and returns the raw body of a 2xx response.
// Any other status comes back as *domain.RequestError.
func Do(ctx context.Context, hc *http.Client, r Request) ([]byte, error) {
	if hc == nil {
		hc = http.DefaultClient
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", redactURLError(err))
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing HTTP request: %w", redactURLError(err))
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.WarnContext(ctx, "closing body", logger.Err(closeErr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		slog.DebugContext(ctx, "Remote call failed", "method", r.Method, "status", resp.StatusCode, "body", string(snippet))
		return nil, &domain.RequestError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return data, nil
}

// redactURLError strips the key from errors that quote the request URL.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{Op: urlErr.Op, URL: RedactKey(urlErr.URL), Err: urlErr.Err}
}

// RedactKey hides the key query parameter so URLs can be logged.
func RedactKey(rawURL string) string {
	i := strings.Index(rawURL, "key=")
	if i == -1 {
		return rawURL
	}
	end := strings.IndexByte(rawURL[i:], '&')
	if end == -1 {
		return rawURL[:i] + "key=***"
	}
	return rawURL[:i] + "key=***" + rawURL[i+end:]
}
