package people

import "errors"

// Common errors
var (
	// ErrEmptyID indicates a person id parameter was empty
	ErrEmptyID = errors.New("person id cannot be empty")
	// ErrNoClient indicates the service was built without a request client
	ErrNoClient = errors.New("people service requires a request client")
)
