package requests

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport. Anything with a Do method works,
// which is how tests count transport calls.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout sets the timeout of the default *http.Client.
// It has no effect after WithHTTPClient installed a custom transport.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if hc, ok := c.httpClient.(*http.Client); ok && timeout > 0 {
			hc.Timeout = timeout
		}
	}
}

// WithTokenProvider sets where authenticated calls get their token
func WithTokenProvider(tokens TokenProvider) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithSession sets the reauthentication signal receiver
func WithSession(session Session) Option {
	return func(c *Client) {
		if session != nil {
			c.session = session
		}
	}
}

// WithFileSink sets where attachments are written
func WithFileSink(sink FileSink) Option {
	return func(c *Client) {
		c.sink = sink
	}
}
