package session

import (
	"os"
	"strings"

	"github.com/s0up4200/fetchr/requests"
)

// StaticToken always returns the same token. An empty string counts as absent.
type StaticToken string

// Token implements requests.TokenProvider
func (s StaticToken) Token() (string, bool) {
	return string(s), s != ""
}

// EnvToken reads the named environment variable on every call
type EnvToken string

// Token implements requests.TokenProvider
func (e EnvToken) Token() (string, bool) {
	token := strings.TrimSpace(os.Getenv(string(e)))
	return token, token != ""
}

// FileToken reads a token file on every call, so an external login process
// can replace the file between requests. A missing or empty file counts as
// absent.
type FileToken string

// Token implements requests.TokenProvider
func (f FileToken) Token() (string, bool) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

// Chain returns the first token any provider has
type Chain []requests.TokenProvider

// Token implements requests.TokenProvider
func (c Chain) Token() (string, bool) {
	for _, p := range c {
		if token, ok := p.Token(); ok {
			return token, true
		}
	}
	return "", false
}
