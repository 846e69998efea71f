package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"

	"github.com/google/uuid"
)

// Method is an HTTP method accepted by the composer
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// requiresBody reports whether the method must carry a body
func (m Method) requiresBody() bool {
	return m == MethodPost || m == MethodPut
}

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeForm = "application/x-www-form-urlencoded"
	headerRequestID = "X-Request-Id"
)

// Descriptor is a transport-ready request. It is built once by Compose and
// not modified afterwards.
type Descriptor struct {
	Method Method
	URL    string
	Header http.Header
	Body   []byte
	Form   bool
}

// RequestID returns the correlation id attached to the descriptor
func (d *Descriptor) RequestID() string {
	return d.Header.Get(headerRequestID)
}

// HTTPRequest converts the descriptor into an *http.Request bound to ctx
func (d *Descriptor) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if d.Body != nil {
		body = bytes.NewReader(d.Body)
	}

	req, err := http.NewRequestWithContext(ctx, string(d.Method), d.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = d.Header.Clone()
	return req, nil
}

// Compose assembles headers and the encoded body for a request. A POST or
// PUT without a body fails here, before anything touches the network.
// An empty token means no Authorization header.
func Compose(method Method, target, token string, body any, asForm bool) (*Descriptor, error) {
	if method.requiresBody() && isNilBody(body) {
		return nil, &ValidationError{Method: method, Err: ErrMissingBody}
	}

	d := &Descriptor{
		Method: method,
		URL:    target,
		Header: make(http.Header),
		Form:   asForm,
	}
	d.Header.Set("Accept", "application/json")
	d.Header.Set(headerRequestID, uuid.NewString())

	if token != "" {
		d.Header.Set("Authorization", "Bearer "+token)
	}

	if !asForm && method.requiresBody() {
		d.Header.Set("Content-Type", contentTypeJSON)
	}

	if isNilBody(body) {
		return d, nil
	}

	if asForm {
		values, err := formValues(body)
		if err != nil {
			return nil, &ValidationError{Method: method, Err: err}
		}
		d.Body = []byte(values.Encode())
		// net/http does not infer this the way a browser does for URLSearchParams
		d.Header.Set("Content-Type", contentTypeForm)
		return d, nil
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, &ValidationError{Method: method, Err: fmt.Errorf("failed to marshal body: %w", err)}
	}
	d.Body = encoded
	return d, nil
}

// isNilBody reports an untyped nil or a nil map, slice or pointer
func isNilBody(body any) bool {
	if body == nil {
		return true
	}
	switch v := reflect.ValueOf(body); v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// formValues flattens a map body into url.Values, coercing each value to text
func formValues(body any) (url.Values, error) {
	values := url.Values{}

	switch b := body.(type) {
	case url.Values:
		return b, nil
	case map[string]string:
		for k, v := range b {
			values.Set(k, v)
		}
	case map[string]any:
		for k, v := range b {
			values.Set(k, textOf(v))
		}
	default:
		return nil, fmt.Errorf("%w: got %T", ErrFormBody, body)
	}
	return values, nil
}
