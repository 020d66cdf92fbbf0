package github

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// Params are query parameters. Nil values, including typed nil pointers, are
// dropped. []string values are comma-joined.
type Params map[string]any

// BuildURL appends the non-nil params to base as a query string. Keys are
// encoded in sorted order; no "?" is added when nothing survives.
func BuildURL(base string, params Params) string {
	q := url.Values{}
	for k, v := range params {
		s, ok := paramString(v)
		if !ok {
			continue
		}
		q.Set(k, s)
	}
	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

func paramString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		v = rv.Elem().Interface()
	}
	switch x := v.(type) {
	case string:
		return x, true
	case []string:
		return strings.Join(x, ","), true
	case bool:
		if x {
			return "true", true
		}
		return "false", true
	default:
		return fmt.Sprint(x), true
	}
}
