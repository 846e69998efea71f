package requests

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// QueryParam is a single query-string entry. Value should be a scalar:
// string, bool, an integer or float, or a fmt.Stringer.
type QueryParam struct {
	Name  string
	Value any
}

// QueryParams keeps insertion order, which is the order they appear in the URL
type QueryParams []QueryParam

// Param creates a QueryParam
func Param(name string, value any) QueryParam {
	return QueryParam{Name: name, Value: value}
}

// Encode returns the URL-encoded query string without a leading '?'
func (q QueryParams) Encode() string {
	if len(q) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, p := range q {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(textOf(p.Value)))
	}
	return sb.String()
}

// isAbsoluteURL reports whether path already carries an http(s) scheme
func isAbsoluteURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// BuildURL joins path onto baseURL and appends params. Absolute http(s)
// paths are used as-is. Leading slashes on path are dropped so the join
// always has exactly one separating slash.
func BuildURL(baseURL, path string, params QueryParams) string {
	full := path
	if !isAbsoluteURL(path) {
		full = strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}

	if query := params.Encode(); query != "" {
		return full + "?" + query
	}
	return full
}

// textOf coerces a scalar to the text sent on the wire
func textOf(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
