//go:build linux

// Package server runs the readiness-driven HTTP file server: a single
// goroutine multiplexes every connection over epoll, feeds received
// bytes through the incremental parser in pkg/http, and answers with
// files resolved through the routing table in pkg/config.
//
// # Ownership model
//
// The loop goroutine owns all connection state. Sessions live in a map
// keyed by file descriptor and are only ever touched between two calls
// to Poller.Wait, so the package has no locks. The route set is
// read-only after construction and safe to share.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shapestone/shape-serve/internal/netpoll"
	"github.com/shapestone/shape-serve/pkg/config"
	"github.com/shapestone/shape-serve/pkg/http"
)

// DefaultRoot is the directory consulted for "/" when no route matches.
const DefaultRoot = "html"

const (
	// readChunk bounds the bytes taken from a socket per readiness
	// event; level-triggered epoll stays ready while more remain.
	readChunk = 4096

	// maxBuffered caps a session's unparsed request bytes. A client
	// that exceeds it is dropped.
	maxBuffered = 64 << 10

	// waitMS bounds each poll so the loop notices a canceled context.
	waitMS = 1000
)

// Server serves files for one listening port.
type Server struct {
	port   int
	routes *config.RouteSet
	log    *logrus.Logger

	defaultRoot string

	listenFD  int
	boundPort int
	poller    *netpoll.Poller
	sessions  map[int]*session
}

// New returns an unstarted server for the given port and route set. A
// nil route set means every non-root path is a 404.
func New(port int, routes *config.RouteSet, log *logrus.Logger) *Server {
	if routes == nil {
		routes = config.NewRouteSet()
	}
	return &Server{
		port:        port,
		routes:      routes,
		log:         log,
		defaultRoot: DefaultRoot,
		listenFD:    -1,
		sessions:    make(map[int]*session),
	}
}

// Listen binds the listening socket without starting the loop. Callers
// that need the bound address before Run (port 0 in tests) use this;
// Run binds on its own otherwise.
func (s *Server) Listen() error {
	fd, port, err := netpoll.Listen(s.port)
	if err != nil {
		return err
	}
	s.listenFD = fd
	s.boundPort = port
	return nil
}

// Addr returns the loopback dial address of the bound listener. Only
// valid after Listen.
func (s *Server) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", s.boundPort)
}

// Run executes the event loop until ctx is canceled or the poller
// fails. Every socket is closed before it returns.
func (s *Server) Run(ctx context.Context) error {
	if s.listenFD < 0 {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	poller, err := netpoll.New()
	if err != nil {
		netpoll.Close(s.listenFD)
		return err
	}
	s.poller = poller
	defer s.shutdown()

	if err := s.poller.Add(s.listenFD, netpoll.Readable); err != nil {
		return err
	}

	s.log.WithField("addr", s.Addr()).Info("listening")

	for {
		events, err := s.poller.Wait(waitMS)
		if err != nil {
			return err
		}
		for _, ev := range events {
			if ev.FD == s.listenFD {
				s.acceptOne()
				continue
			}
			s.handleConn(ev)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// shutdown closes every connection, the listener, and the poller.
func (s *Server) shutdown() {
	for fd := range s.sessions {
		netpoll.Close(fd)
		delete(s.sessions, fd)
	}
	netpoll.Close(s.listenFD)
	s.poller.Close()
	s.log.Info("server stopped")
}

// acceptOne admits a single pending connection. With more queued the
// listener stays ready and the next Wait reports it again.
func (s *Server) acceptOne() {
	fd, remote, err := netpoll.Accept(s.listenFD)
	if err != nil {
		if !netpoll.WouldBlock(err) && !netpoll.Interrupted(err) {
			s.log.WithError(err).Warn("accept failed")
		}
		return
	}

	sess := newSession(fd, remote)
	if err := s.poller.Add(fd, netpoll.Readable); err != nil {
		s.log.WithError(err).Warn("could not register connection")
		netpoll.Close(fd)
		return
	}
	s.sessions[fd] = sess
	s.connLog(sess).Debug("accepted")
}

// handleConn dispatches one readiness event for an open session. Write
// readiness is served first so a blocked response drains ahead of new
// work; a hangup with nothing left to read or flush tears the session
// down.
func (s *Server) handleConn(ev netpoll.Event) {
	sess, ok := s.sessions[ev.FD]
	if !ok {
		// Torn down earlier in this batch.
		return
	}

	if ev.Writable() {
		if !s.flush(sess) {
			return
		}
	}
	if ev.Readable() {
		s.readAndServe(sess)
		return
	}
	if ev.PeerClosed() {
		s.connLog(sess).Debug("peer hung up")
		s.teardown(sess)
	}
}

// readAndServe performs the single non-blocking read for a readiness
// event and drains every complete request the buffer then holds.
func (s *Server) readAndServe(sess *session) {
	var chunk [readChunk]byte
	n, err := netpoll.Read(sess.fd, chunk[:])
	if err != nil {
		if netpoll.WouldBlock(err) || netpoll.Interrupted(err) {
			return
		}
		// Reset or worse. Nothing to send, nobody to send it to.
		s.connLog(sess).WithError(err).Debug("read failed")
		s.teardown(sess)
		return
	}
	if n == 0 {
		s.connLog(sess).Debug("peer closed")
		s.teardown(sess)
		return
	}

	if !sess.buffer(chunk[:n]) {
		s.connLog(sess).Warn("request buffer cap exceeded")
		s.teardown(sess)
		return
	}
	s.drainRequests(sess)
}

// drainRequests parses and answers requests until the buffer runs dry,
// a response decides the connection must close, or a protocol error
// kills it. Once a close is decided, bytes buffered behind that request
// are never parsed, even across later read events.
func (s *Server) drainRequests(sess *session) {
	for len(sess.rbuf) > 0 && !sess.closing {
		req, consumed, err := http.ParseRequest(sess.rbuf)
		if errors.Is(err, http.ErrIncompleteMessage) {
			return
		}
		if err != nil {
			// Protocol violation: no response, drop the connection.
			s.connLog(sess).WithError(err).Info("malformed request")
			s.teardown(sess)
			return
		}

		sess.discard(consumed)
		sess.keepAlive = wantsKeepAlive(req)
		if !s.respond(sess, req) {
			return
		}
	}

	// A decided close completes as soon as the response has fully
	// left; otherwise flush finishes it on write readiness.
	if sess.closing && len(sess.wbuf) == 0 {
		s.teardown(sess)
	}
}

// teardown closes the socket and forgets the session. Closing the fd
// also removes it from the epoll interest set.
func (s *Server) teardown(sess *session) {
	netpoll.Close(sess.fd)
	delete(s.sessions, sess.fd)
	s.connLog(sess).Debug("closed")
}

// connLog returns the connection-scoped log entry.
func (s *Server) connLog(sess *session) *logrus.Entry {
	return s.log.WithFields(logrus.Fields{
		"conn":   sess.id,
		"fd":     sess.fd,
		"remote": sess.remote,
	})
}
