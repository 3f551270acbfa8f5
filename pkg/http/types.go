// Package http implements the HTTP/1.1 wire format used by shape-serve:
// incremental request framing over a caller-owned byte buffer, and
// response serialization.
//
// # Framing model
//
// ParseRequest extracts at most one complete request from the front of a
// byte buffer and reports how many bytes it consumed. The caller owns the
// buffer: it appends newly read bytes as they arrive and discards exactly
// the consumed prefix after each successful parse. The parser keeps no
// state between calls, so it can be re-invoked on a growing buffer and on
// the remainder left behind by a pipelined request.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple
// goroutines; no package-level state is mutated.
package http

import "strings"

// Request represents one parsed HTTP/1.1 request.
//
// Header names are folded to lowercase during parsing, so lookups against
// Headers use lowercase keys. Body holds exactly content-length bytes and
// never aliases the buffer the request was parsed from.
type Request struct {
	Method  string  // "GET", "POST", etc.
	Path    string  // raw request-target, not normalized
	Version string  // "HTTP/1.1"
	Headers Headers // ordered; names lowercased
	Body    []byte  // nil when the request carries no body
}

// Response represents an HTTP/1.1 response to be serialized by Marshal.
type Response struct {
	StatusCode int     // 200, 404
	Reason     string  // "OK"; defaulted from StatusCode when empty
	Headers    Headers // written in declaration order
	Body       []byte
}

// Header represents a single HTTP header key-value pair.
type Header struct {
	Key   string
	Value string
}

// Headers is an ordered, repeatable list of HTTP headers.
type Headers []Header

// Get returns the value for the given key (case-insensitive). When a
// name repeats, the last occurrence wins, matching the overwrite
// semantics of a name-keyed map. Returns empty string if not found.
func (h Headers) Get(key string) string {
	v := ""
	for _, hdr := range h {
		if strings.EqualFold(hdr.Key, key) {
			v = hdr.Value
		}
	}
	return v
}

// Add appends a header without replacing existing ones.
func (h *Headers) Add(key, value string) {
	*h = append(*h, Header{Key: key, Value: value})
}
