package requests

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

// Request is one call through the pipeline. Path is resolved against the
// client's base URL unless it is already an absolute http(s) URL.
type Request struct {
	Method Method
	Path   string
	Query  QueryParams
	Body   any
	AsForm bool
}

// Client holds the collaborators shared by every request. Each call builds
// its own descriptor and response; nothing else is mutated after NewClient.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	tokens     TokenProvider
	session    Session
	sink       FileSink
	logger     zerolog.Logger
}

// NewClient creates a new request client for the service at baseURL
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}

	// No cookie jar: requests never carry cookie credentials
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		session:    NoopSession{},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BaseURL returns the base that relative paths are joined to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req without authentication and decodes the response into T.
func Do[T any](ctx context.Context, c *Client, req Request) (T, error) {
	return unwrap[T](c.send(ctx, req, "", func(resp *http.Response) (any, error) {
		return Resolve[T](resp, c.sink)
	}))
}

// DoAuthenticated sends req with the provider's current token.
//
// A missing token does not fail the call: it is logged, the session is
// told to reauthenticate, and the request still goes out with no
// Authorization header.
func DoAuthenticated[T any](ctx context.Context, c *Client, req Request) (T, error) {
	token, ok := "", false
	if c.tokens != nil {
		token, ok = c.tokens.Token()
	}
	if !ok || token == "" {
		c.logger.Error().Str("path", req.Path).Msg("could not find access token")
		c.session.Reauthenticate()
		token = ""
	}

	return unwrap[T](c.send(ctx, req, token, func(resp *http.Response) (any, error) {
		return Resolve[T](resp, c.sink)
	}))
}

// unwrap restores the caller's type from the non-generic send path
func unwrap[T any](value any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v, ok := value.(T); ok {
		return v, nil
	}
	return zero, nil
}

// send runs compose, transport and classification. resolve decodes a 2xx
// response into the caller's type.
func (c *Client) send(ctx context.Context, req Request, token string, resolve func(*http.Response) (any, error)) (any, error) {
	method := req.Method
	if method == "" {
		method = MethodGet
	}

	target := BuildURL(c.baseURL, req.Path, req.Query)

	desc, err := Compose(method, target, token, req.Body, req.AsForm)
	if err != nil {
		return nil, err
	}

	httpReq, err := desc.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	log := c.logger.With().
		Str("method", string(method)).
		Str("url", target).
		Str("request_id", desc.RequestID()).
		Logger()
	log.Debug().Msg("Sending request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ConnectionError{Op: "send request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// An unreadable error body is treated like an unparsable one
		body, _ := io.ReadAll(resp.Body)
		statusErr := Classify(resp.StatusCode, statusText(resp), body)

		if statusErr.IsUnauthorized() {
			log.Error().Msg("Unauthorized request, forcing reauthentication")
			c.session.Reauthenticate()
		}

		log.Debug().
			Int("status", statusErr.Status).
			Str("kind", statusErr.Kind.String()).
			Str("message", statusErr.Message).
			Msg("Request failed")
		return nil, statusErr
	}

	value, err := resolve(resp)
	if err != nil {
		return nil, err
	}

	log.Debug().Int("status", resp.StatusCode).Msg("Request succeeded")
	return value, nil
}
