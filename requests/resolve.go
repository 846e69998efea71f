package requests

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// DefaultFilename is used when an attachment carries no usable filename
const DefaultFilename = "download.dat"

// Resolve decodes a successful response. The decision is made on headers,
// in order: a JSON content type is decoded into T; an attachment is handed
// to sink and the zero T is returned; anything else is read as text, which
// only fits a T of string, []byte or any.
func Resolve[T any](resp *http.Response, sink FileSink) (T, error) {
	var out T

	contentType := resp.Header.Get("Content-Type")
	disposition := resp.Header.Get("Content-Disposition")

	switch {
	case strings.Contains(contentType, "application/json"):
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return out, &ConnectionError{Op: "read body", Err: err}
		}
		if err := json.Unmarshal(data, &out); err != nil {
			return out, &ConnectionError{Op: "decode json", Err: err}
		}
		return out, nil

	case strings.Contains(disposition, "attachment"):
		if sink == nil {
			return out, &ConnectionError{Op: "save attachment", Err: errors.New("no file sink configured")}
		}
		name := AttachmentFilename(disposition)
		if err := sink.Save(name, resp.Body); err != nil {
			return out, fmt.Errorf("failed to save attachment %q: %w", name, err)
		}
		return out, nil

	default:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return out, &ConnectionError{Op: "read body", Err: err}
		}
		switch p := any(&out).(type) {
		case *string:
			*p = string(data)
		case *[]byte:
			*p = data
		case *any:
			*p = string(data)
		default:
			return out, &ConnectionError{
				Op:  "decode text",
				Err: fmt.Errorf("cannot assign %q body to %T", contentType, out),
			}
		}
		return out, nil
	}
}

// AttachmentFilename extracts the filename parameter from a
// Content-Disposition header, falling back to DefaultFilename.
func AttachmentFilename(disposition string) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}

	// Headers that mime rejects still often carry a readable filename=
	idx := strings.Index(disposition, "filename=")
	if idx < 0 {
		return DefaultFilename
	}
	name := disposition[idx+len("filename="):]
	if end := strings.IndexByte(name, ';'); end >= 0 {
		name = name[:end]
	}
	name = strings.Trim(strings.TrimSpace(name), `"'`)
	if name == "" {
		return DefaultFilename
	}
	return name
}
