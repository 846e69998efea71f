package requests

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSession implements Session for testing
type countingSession struct {
	mu    sync.Mutex
	count int
}

func (s *countingSession) Reauthenticate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
}

func (s *countingSession) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// countingDoer implements HTTPDoer for testing
type countingDoer struct {
	calls int
	resp  *http.Response
	err   error
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.resp, nil
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	client, err := NewClient(baseURL, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("missing base URL", func(t *testing.T) {
		_, err := NewClient("", zerolog.Nop())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		client := newTestClient(t, "http://api.test/")
		assert.Equal(t, "http://api.test", client.BaseURL())
	})

	t.Run("default transport has no cookie jar", func(t *testing.T) {
		client := newTestClient(t, "http://api.test")
		hc, ok := client.httpClient.(*http.Client)
		require.True(t, ok)
		assert.Nil(t, hc.Jar)
		assert.Equal(t, 30*time.Second, hc.Timeout)
	})

	t.Run("with timeout", func(t *testing.T) {
		client := newTestClient(t, "http://api.test", WithTimeout(5*time.Second))
		assert.Equal(t, 5*time.Second, client.httpClient.(*http.Client).Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		doer := &countingDoer{}
		client := newTestClient(t, "http://api.test", WithHTTPClient(doer))
		assert.Equal(t, doer, client.httpClient)
	})

	t.Run("nil session keeps noop", func(t *testing.T) {
		client := newTestClient(t, "http://api.test", WithSession(nil))
		assert.Equal(t, NoopSession{}, client.session)
	})
}

func TestDoJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people/1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Values("Cookie"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"name": "Luke Skywalker", "height": "172"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	got, err := Do[character](context.Background(), client, Request{Path: "/people/1"})
	require.NoError(t, err)
	assert.Equal(t, character{Name: "Luke Skywalker", Height: "172"}, got)
}

func TestDoQueryAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "dry=true&tag=rebels", r.URL.RawQuery)
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Leia"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Leia","height":"150"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	got, err := Do[character](context.Background(), client, Request{
		Method: MethodPost,
		Path:   "people",
		Query:  QueryParams{Param("dry", true), Param("tag", "rebels")},
		Body:   map[string]any{"name": "Leia"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Leia", got.Name)
}

func TestDoFormBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "true", r.PostForm.Get("remember"))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	got, err := Do[string](context.Background(), client, Request{
		Method: MethodPost,
		Path:   "token",
		Body:   map[string]any{"grant_type": "password", "remember": true},
		AsForm: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestDoPostWithoutBodyNeverReachesTransport(t *testing.T) {
	doer := &countingDoer{}
	client := newTestClient(t, "http://api.test", WithHTTPClient(doer))

	_, err := Do[any](context.Background(), client, Request{Method: MethodPost, Path: "people"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBody)
	assert.Equal(t, 0, doer.calls)

	_, err = DoAuthenticated[any](context.Background(), client, Request{Method: MethodPut, Path: "people/1"})
	require.Error(t, err)
	assert.Equal(t, 0, doer.calls)
}

func TestDoConnectionFailure(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		doer := &countingDoer{err: errors.New("dial tcp: connection refused")}
		client := newTestClient(t, "http://api.test", WithHTTPClient(doer))

		_, err := Do[any](context.Background(), client, Request{Path: "people"})
		var connErr *ConnectionError
		require.ErrorAs(t, err, &connErr)
		assert.Contains(t, err.Error(), "connection refused")

		var statusErr *StatusError
		assert.False(t, errors.As(err, &statusErr))
	})

	t.Run("closed server", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := newTestClient(t, server.URL)
		_, err := Do[any](context.Background(), client, Request{Path: "people"})
		var connErr *ConnectionError
		require.ErrorAs(t, err, &connErr)
	})

	t.Run("unparsable success body", func(t *testing.T) {
		doer := &countingDoer{resp: newResponse(200, map[string]string{"Content-Type": "application/json"}, "{oops")}
		client := newTestClient(t, "http://api.test", WithHTTPClient(doer))

		_, err := Do[character](context.Background(), client, Request{Path: "people/1"})
		var connErr *ConnectionError
		require.ErrorAs(t, err, &connErr)
	})
}

func TestDoUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"expired"}}`))
	}))
	defer server.Close()

	session := &countingSession{}
	client := newTestClient(t, server.URL, WithSession(session))

	_, err := Do[any](context.Background(), client, Request{Path: "people"})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.True(t, statusErr.IsUnauthorized())
	assert.Equal(t, "expired", statusErr.Message)
	assert.Equal(t, 1, session.Count())
}

func TestDoNotFoundDoesNotReauthenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"not found"}`))
	}))
	defer server.Close()

	session := &countingSession{}
	client := newTestClient(t, server.URL, WithSession(session))

	_, err := Do[any](context.Background(), client, Request{Path: "people/999"})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.True(t, statusErr.IsNotFound())
	assert.False(t, statusErr.IsUnauthorized())
	assert.Equal(t, "not found", statusErr.Message)
	assert.Equal(t, 0, session.Count())
}

func TestDoMalformedErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := Do[any](context.Background(), client, Request{Path: "people"})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, KindGeneric, statusErr.Kind)
	assert.Equal(t, 502, statusErr.Status)
	assert.Equal(t, "Bad Gateway", statusErr.Message)
}

func TestDoAttachment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
		w.Write([]byte("name\nLuke\n"))
	}))
	defer server.Close()

	sink := &recordingSink{}
	client := newTestClient(t, server.URL, WithFileSink(sink))

	got, err := Do[any](context.Background(), client, Request{Path: "people/export"})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, []string{"report.csv"}, sink.names)
	assert.Equal(t, "name\nLuke\n", string(sink.data[0]))
}

func TestDoAuthenticated(t *testing.T) {
	var gotAuth []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	t.Run("with token", func(t *testing.T) {
		gotAuth = nil
		session := &countingSession{}
		client := newTestClient(t, server.URL,
			WithTokenProvider(TokenFunc(func() (string, bool) { return "secret", true })),
			WithSession(session),
		)

		got, err := DoAuthenticated[string](context.Background(), client, Request{Path: "ping"})
		require.NoError(t, err)
		assert.Equal(t, "pong", got)
		assert.Equal(t, []string{"Bearer secret"}, gotAuth)
		assert.Equal(t, 0, session.Count())
	})

	t.Run("missing token still sends request", func(t *testing.T) {
		gotAuth = nil
		session := &countingSession{}
		client := newTestClient(t, server.URL,
			WithTokenProvider(TokenFunc(func() (string, bool) { return "", false })),
			WithSession(session),
		)

		got, err := DoAuthenticated[string](context.Background(), client, Request{Path: "ping"})
		require.NoError(t, err)
		assert.Equal(t, "pong", got)
		assert.Equal(t, []string{""}, gotAuth)
		assert.Equal(t, 1, session.Count())
	})

	t.Run("no provider configured", func(t *testing.T) {
		gotAuth = nil
		session := &countingSession{}
		client := newTestClient(t, server.URL, WithSession(session))

		_, err := DoAuthenticated[string](context.Background(), client, Request{Path: "ping"})
		require.NoError(t, err)
		assert.Equal(t, []string{""}, gotAuth)
		assert.Equal(t, 1, session.Count())
	})

	t.Run("token provider read once per call", func(t *testing.T) {
		calls := 0
		client := newTestClient(t, server.URL,
			WithTokenProvider(TokenFunc(func() (string, bool) {
				calls++
				return "t", true
			})),
		)

		for i := 0; i < 3; i++ {
			_, err := DoAuthenticated[string](context.Background(), client, Request{Path: "ping"})
			require.NoError(t, err)
		}
		assert.Equal(t, 3, calls)
	})
}

func TestDoAuthenticatedMissingTokenThenUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error_description":"no token"}`))
	}))
	defer server.Close()

	session := &countingSession{}
	client := newTestClient(t, server.URL, WithSession(session))

	_, err := DoAuthenticated[any](context.Background(), client, Request{Path: "people"})
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, strings.Contains(err.Error(), "no token"))
	// One signal for the missing token, one for the 401
	assert.Equal(t, 2, session.Count())
}
