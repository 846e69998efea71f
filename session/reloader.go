// Package session provides the auth collaborators of the request layer:
// token providers, and a Reloader that receives the forced
// reauthentication signal.
package session

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Reloader handles the forced reauthentication signal. A CLI has no page to
// reload, so it logs, counts, and runs an optional hook that tells the user
// to log in again.
type Reloader struct {
	logger   zerolog.Logger
	onReauth func()
	count    atomic.Int64
}

// NewReloader creates a Reloader. onReauth may be nil.
func NewReloader(logger zerolog.Logger, onReauth func()) *Reloader {
	return &Reloader{
		logger:   logger,
		onReauth: onReauth,
	}
}

// Reauthenticate implements requests.Session
func (r *Reloader) Reauthenticate() {
	n := r.count.Add(1)
	r.logger.Warn().Int64("signals", n).Msg("Session is no longer valid, login required")

	if r.onReauth != nil {
		r.onReauth()
	}
}

// Count returns how many signals have been received
func (r *Reloader) Count() int64 {
	return r.count.Load()
}

// Required reports whether at least one signal has been received
func (r *Reloader) Required() bool {
	return r.Count() > 0
}
