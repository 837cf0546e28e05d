package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
)

func TestDoSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"a":1}`, string(body))
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	req, err := PostJSON(srv.URL, map[string]int{"a": 1})
	require.NoError(t, err)

	data, err := Do(context.Background(), srv.Client(), req)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestDoFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := Do(context.Background(), srv.Client(), Get(srv.URL))

	var reqErr *domain.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusForbidden, reqErr.StatusCode)
}

func TestDoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, nil, Get("http://127.0.0.1:1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedactKey(t *testing.T) {
	assert.Equal(t, "https://x/y?key=***", RedactKey("https://x/y?key=secret"))
	assert.Equal(t, "https://x/y?key=***&a=b", RedactKey("https://x/y?key=secret&a=b"))
	assert.Equal(t, "https://x/y", RedactKey("https://x/y"))
}

func TestDoNetworkErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := Do(context.Background(), nil, Get(addr+"/v1/things?key=SECRET-API-KEY&a=b"))

	require.Error(t, err)
	assert.NotContains(t, domain.ErrorText(err), "SECRET-API-KEY")
	assert.Contains(t, err.Error(), "key=***&a=b")
}

func TestDoBadURLHidesKey(t *testing.T) {
	_, err := Do(context.Background(), nil, Get("http://bad host/?key=SECRET-API-KEY"))

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-API-KEY")
}
