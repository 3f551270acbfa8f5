//go:build linux

package server

import (
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shapestone/shape-serve/internal/netpoll"
	"github.com/shapestone/shape-serve/pkg/http"
)

const notFoundText = "404 Not Found"

// respond resolves the request against the route set, reads the file,
// and queues the response bytes. It reports false when the session was
// torn down by a failed write.
func (s *Server) respond(sess *session, req *http.Request) bool {
	status, body := s.serveFile(req.Path)

	resp := &http.Response{StatusCode: status, Body: body}
	resp.Headers.Add("Content-Length", strconv.Itoa(len(body)))
	resp.Headers.Add("Content-Type", "text/plain")
	if sess.keepAlive {
		resp.Headers.Add("Connection", "keep-alive")
	} else {
		sess.closing = true
	}

	s.connLog(sess).WithFields(logrus.Fields{
		"method": req.Method,
		"path":   req.Path,
		"status": status,
	}).Info("request")

	return s.queueWrite(sess, http.Marshal(resp))
}

// serveFile maps a request path to a status and body. The bare "/"
// falls back to the default root when no route covers it; every other
// failure collapses to a 404.
func (s *Server) serveFile(reqPath string) (int, []byte) {
	path := reqPath
	if path == "/" {
		path = "/index.html"
	}

	if escapesRoot(path) {
		return 404, []byte(notFoundText)
	}

	root, ok := s.routes.Resolve(path)
	if !ok {
		if reqPath != "/" {
			return 404, []byte(notFoundText)
		}
		root = s.defaultRoot
	}

	data, err := os.ReadFile(root + path)
	if err != nil {
		return 404, []byte(notFoundText)
	}
	return 200, data
}

// escapesRoot reports whether any path segment is "..", which would
// address files above the chosen root after concatenation.
func escapesRoot(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// queueWrite sends data with one non-blocking write, buffering whatever
// the socket did not accept and registering write interest to finish
// later. Reports false when the write killed the session.
func (s *Server) queueWrite(sess *session, data []byte) bool {
	if len(sess.wbuf) > 0 {
		// An earlier response is still draining; keep ordering.
		sess.wbuf = append(sess.wbuf, data...)
		return true
	}

	n, err := netpoll.Write(sess.fd, data)
	if err != nil && !netpoll.WouldBlock(err) && !netpoll.Interrupted(err) {
		s.connLog(sess).WithError(err).Debug("write failed")
		s.teardown(sess)
		return false
	}
	if n < 0 {
		n = 0
	}
	if n < len(data) {
		sess.wbuf = append(sess.wbuf, data[n:]...)
		if err := s.poller.Modify(sess.fd, netpoll.Readable|netpoll.Writable); err != nil {
			s.connLog(sess).WithError(err).Warn("could not watch for write readiness")
			s.teardown(sess)
			return false
		}
	}
	return true
}

// flush retries the buffered response bytes on write readiness. It
// reports false when the session went away, either through a dead
// socket or because a deferred close completed.
func (s *Server) flush(sess *session) bool {
	if len(sess.wbuf) == 0 {
		return true
	}

	n, err := netpoll.Write(sess.fd, sess.wbuf)
	if err != nil && !netpoll.WouldBlock(err) && !netpoll.Interrupted(err) {
		s.connLog(sess).WithError(err).Debug("write failed")
		s.teardown(sess)
		return false
	}
	if n > 0 {
		kept := copy(sess.wbuf, sess.wbuf[n:])
		sess.wbuf = sess.wbuf[:kept]
	}
	if len(sess.wbuf) > 0 {
		return true
	}

	// Drained. Finish a deferred close or drop write interest.
	if sess.closing {
		s.teardown(sess)
		return false
	}
	if err := s.poller.Modify(sess.fd, netpoll.Readable); err != nil {
		s.teardown(sess)
		return false
	}
	return true
}
