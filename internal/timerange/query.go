package timerange

import (
	"net/url"
	"strings"
)

// queryParam is one decoded key/value pair of a query string
type queryParam struct {
	key   string
	value string
}

// query is an order-preserving query string. url.Values sorts keys on
// Encode, which would reshuffle every parameter of a rewritten URL.
type query []queryParam

func parseQuery(raw string) query {
	var q query
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		q = append(q, queryParam{key: formUnescape(k), value: formUnescape(v)})
	}
	return q
}

// Get returns the first value for key.
func (q query) Get(key string) (string, bool) {
	for _, p := range q {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Set replaces the first occurrence of key, drops any others, and appends
// the pair when key is absent.
func (q query) Set(key, value string) query {
	out := q[:0:0]
	found := false
	for _, p := range q {
		if p.key != key {
			out = append(out, p)
			continue
		}
		if !found {
			out = append(out, queryParam{key: key, value: value})
			found = true
		}
	}
	if !found {
		out = append(out, queryParam{key: key, value: value})
	}
	return out
}

// Del removes every occurrence of key.
func (q query) Del(key string) query {
	out := q[:0:0]
	for _, p := range q {
		if p.key != key {
			out = append(out, p)
		}
	}
	return out
}

// Encode serializes as application/x-www-form-urlencoded in original order.
func (q query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(formEscape(p.key))
		b.WriteByte('=')
		b.WriteString(formEscape(p.value))
	}
	return b.String()
}

func formUnescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return strings.ReplaceAll(s, "+", " ")
}

// formEscape leaves only ASCII alphanumerics and "*-._" unescaped and writes
// spaces as '+', matching browsers' URLSearchParams serialization.
func formEscape(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '*', c == '-', c == '.', c == '_':
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('+')
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
		}
	}
	return b.String()
}
