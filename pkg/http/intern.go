package http

import "strings"

// String interning for common HTTP tokens.
//
// The Go compiler optimizes map lookups with string([]byte) keys
// to avoid allocating the temporary string (the mapaccess optimization).
// This means internMethod(someBytes) is zero-alloc for known methods.

var methods = map[string]string{
	"GET": "GET", "HEAD": "HEAD", "POST": "POST",
	"PUT": "PUT", "DELETE": "DELETE", "CONNECT": "CONNECT",
	"OPTIONS": "OPTIONS", "TRACE": "TRACE", "PATCH": "PATCH",
}

var versions = map[string]string{
	"HTTP/1.0": "HTTP/1.0", "HTTP/1.1": "HTTP/1.1",
}

// headerNames maps already-lowercased names to a canonical instance.
// Keys match what foldHeaderName produces.
var headerNames = map[string]string{
	"accept":            "accept",
	"accept-encoding":   "accept-encoding",
	"accept-language":   "accept-language",
	"authorization":     "authorization",
	"cache-control":     "cache-control",
	"connection":        "connection",
	"content-length":    "content-length",
	"content-type":      "content-type",
	"cookie":            "cookie",
	"host":              "host",
	"if-modified-since": "if-modified-since",
	"if-none-match":     "if-none-match",
	"origin":            "origin",
	"pragma":            "pragma",
	"range":             "range",
	"referer":           "referer",
	"user-agent":        "user-agent",
	"x-forwarded-for":   "x-forwarded-for",
	"x-request-id":      "x-request-id",
}

// internMethod returns an interned string for known HTTP methods, avoiding allocation.
func internMethod(b []byte) string {
	if s, ok := methods[string(b)]; ok {
		return s
	}
	return string(b)
}

// internVersion returns an interned string for known HTTP versions, avoiding allocation.
func internVersion(b []byte) string {
	if s, ok := versions[string(b)]; ok {
		return s
	}
	return string(b)
}

// foldHeaderName returns the ASCII-lowercase form of b, interned for
// common header names so steady-state parsing does not allocate.
func foldHeaderName(b []byte) string {
	var tmp [32]byte
	if len(b) > len(tmp) {
		return strings.ToLower(string(b))
	}
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		tmp[i] = c
	}
	lower := tmp[:len(b)]
	if s, ok := headerNames[string(lower)]; ok {
		return s
	}
	return string(lower)
}
