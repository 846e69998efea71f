package requests

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Classify turns a non-2xx response into a StatusError. A body that is not
// valid JSON is replaced by {"message": statusText}, so a malformed error
// body never fails the classification itself.
//
// 401 responses use a different envelope from every other status: the
// message lives in error.message, or error_description, instead of a flat
// message field.
func Classify(status int, statusText string, body []byte) *StatusError {
	var message string

	if status == http.StatusUnauthorized {
		if gjson.ValidBytes(body) {
			if msg := gjson.GetBytes(body, "error.message"); msg.Exists() && msg.Type != gjson.Null {
				message = msg.String()
			} else {
				message = gjson.GetBytes(body, "error_description").String()
			}
		}
		// The fallback payload only has a flat message, so an unparsable
		// 401 body leaves the message empty.
	} else {
		if gjson.ValidBytes(body) {
			message = gjson.GetBytes(body, "message").String()
		} else {
			message = statusText
		}
	}

	return &StatusError{
		Kind:    kindForStatus(status),
		Status:  status,
		Message: message,
	}
}

// statusText extracts the reason phrase from a response status line
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}
