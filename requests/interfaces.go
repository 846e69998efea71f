package requests

import (
	"io"
	"net/http"
)

// HTTPDoer is the transport boundary. *http.Client implements it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenProvider supplies the current bearer token. ok is false when no
// token is available. The client only ever reads it.
type TokenProvider interface {
	Token() (token string, ok bool)
}

// TokenFunc adapts a function to TokenProvider
type TokenFunc func() (string, bool)

// Token implements TokenProvider
func (f TokenFunc) Token() (string, bool) {
	return f()
}

// Session receives the forced reauthentication signal. It is fire and
// forget: the caller still gets its error.
type Session interface {
	Reauthenticate()
}

// FileSink materializes an attachment body under the given filename
type FileSink interface {
	Save(filename string, r io.Reader) error
}

// NoopSession ignores reauthentication signals
type NoopSession struct{}

// Reauthenticate implements Session
func (NoopSession) Reauthenticate() {}
