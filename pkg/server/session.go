//go:build linux

package server

import (
	"strings"

	"github.com/google/uuid"

	"github.com/shapestone/shape-serve/pkg/http"
)

// session is the per-connection state: a stable identity for logs, the
// bytes read but not yet parsed, and the response bytes the socket has
// not yet accepted. A session belongs to the loop goroutine exclusively.
type session struct {
	id     string
	fd     int
	remote string

	rbuf []byte // unparsed request bytes
	wbuf []byte // unsent response bytes

	keepAlive bool
	closing   bool // tear down once wbuf drains
}

func newSession(fd int, remote string) *session {
	return &session{id: uuid.NewString(), fd: fd, remote: remote}
}

// buffer appends freshly read bytes, refusing growth past maxBuffered.
func (c *session) buffer(data []byte) bool {
	if len(c.rbuf)+len(data) > maxBuffered {
		return false
	}
	c.rbuf = append(c.rbuf, data...)
	return true
}

// discard drops exactly n parsed bytes from the front of the read
// buffer, keeping the remainder in place for the next parse.
func (c *session) discard(n int) {
	kept := copy(c.rbuf, c.rbuf[n:])
	c.rbuf = c.rbuf[:kept]
}

// wantsKeepAlive reports whether the request asked to keep the
// connection open: a connection header whose value is exactly
// "keep-alive", compared case-insensitively after trimming. Any other
// value, and absence, mean close after the response.
func wantsKeepAlive(req *http.Request) bool {
	v := req.Headers.Get("connection")
	return strings.EqualFold(strings.TrimSpace(v), "keep-alive")
}
