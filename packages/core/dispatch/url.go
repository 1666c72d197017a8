package dispatch

import (
	"net/url"
	"strings"

	"github.com/abdul-hamid-achik/webreq/packages/namespace"
)

// BuildURL joins base, endpoint and id with slashes and appends params as
// a query string in their file order. With encode unset keys and values
// are concatenated as written.
func BuildURL(base, endpoint, id string, params namespace.Fields, encode bool) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('/')
	b.WriteString(endpoint)
	if id != "" {
		b.WriteByte('/')
		b.WriteString(id)
	}

	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		key, value := p.Key, p.Value
		if encode {
			key, value = url.QueryEscape(key), url.QueryEscape(value)
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
	}
	return b.String()
}

// UnsafeParams returns the keys of params whose key or value would change
// under query escaping.
func UnsafeParams(params namespace.Fields) []string {
	var keys []string
	for _, p := range params {
		if url.QueryEscape(p.Key) != p.Key || url.QueryEscape(p.Value) != p.Value {
			keys = append(keys, p.Key)
		}
	}
	return keys
}
