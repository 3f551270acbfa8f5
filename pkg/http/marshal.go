package http

import (
	"strconv"
	"sync"
)

// bufPool pools []byte slices for the serialization fast path.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 2048)
		return &b
	},
}

// reasonPhrases holds default reason phrases for the statuses the
// server emits, used when Response.Reason is empty.
var reasonPhrases = map[int]string{
	200: "OK",
	404: "Not Found",
}

// Marshal returns the HTTP/1.1 wire-format encoding of resp.
//
// Headers are written exactly as given, in order; nothing is injected,
// so the caller decides content-length and connection handling. The
// returned slice is freshly allocated and safe to retain.
func Marshal(resp *Response) []byte {
	bp := bufPool.Get().(*[]byte)
	buf := appendResponse((*bp)[:0], resp)

	result := make([]byte, len(buf))
	copy(result, buf)
	*bp = buf
	bufPool.Put(bp)
	return result
}

// appendResponse appends the status line, header block, and body.
func appendResponse(buf []byte, resp *Response) []byte {
	reason := resp.Reason
	if reason == "" {
		reason = reasonPhrases[resp.StatusCode]
	}
	buf = append(buf, "HTTP/1.1 "...)
	buf = strconv.AppendInt(buf, int64(resp.StatusCode), 10)
	buf = append(buf, ' ')
	buf = append(buf, reason...)
	buf = append(buf, crlf...)
	for _, h := range resp.Headers {
		buf = append(buf, h.Key...)
		buf = append(buf, ':', ' ')
		buf = append(buf, h.Value...)
		buf = append(buf, crlf...)
	}
	buf = append(buf, crlf...)
	return append(buf, resp.Body...)
}
