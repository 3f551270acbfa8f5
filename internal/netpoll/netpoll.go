//go:build linux

// Package netpoll wraps the Linux epoll and socket syscalls the server
// loop runs on: a non-blocking listener, readiness registration, and
// bounded waits. Everything is level-triggered.
package netpoll

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const maxEvents = 128

// Readiness masks for Add and Modify.
const (
	Readable = uint32(unix.EPOLLIN | unix.EPOLLRDHUP)
	Writable = uint32(unix.EPOLLOUT)
)

// Event is one readiness notification for a registered fd.
type Event struct {
	FD     int
	Events uint32
}

// Readable reports read readiness.
func (e Event) Readable() bool {
	return e.Events&unix.EPOLLIN != 0
}

// Writable reports write readiness.
func (e Event) Writable() bool {
	return e.Events&unix.EPOLLOUT != 0
}

// PeerClosed reports hangup or error conditions: the peer is gone and
// the fd should be torn down without further IO.
func (e Event) PeerClosed() bool {
	return e.Events&(unix.EPOLLHUP|unix.EPOLLRDHUP|unix.EPOLLERR) != 0
}

// Poller is a level-triggered epoll instance. It is not safe for
// concurrent use; the server loop is its only caller.
type Poller struct {
	epfd   int
	events []unix.EpollEvent
	out    []Event
}

// New creates an epoll instance.
func New() (*Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("netpoll: epoll_create1: %w", err)
	}
	return &Poller{
		epfd:   epfd,
		events: make([]unix.EpollEvent, maxEvents),
		out:    make([]Event, 0, maxEvents),
	}, nil
}

// Close releases the epoll instance. Registered fds are not closed.
func (p *Poller) Close() error {
	return unix.Close(p.epfd)
}

// Add registers fd with the given readiness mask.
func (p *Poller) Add(fd int, mask uint32) error {
	ev := unix.EpollEvent{Events: mask, Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("netpoll: epoll_ctl add fd %d: %w", fd, err)
	}
	return nil
}

// Modify replaces the readiness mask of a registered fd.
func (p *Poller) Modify(fd int, mask uint32) error {
	ev := unix.EpollEvent{Events: mask, Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return fmt.Errorf("netpoll: epoll_ctl mod fd %d: %w", fd, err)
	}
	return nil
}

// Remove unregisters fd. Closing an fd also unregisters it, so this is
// only needed when keeping the fd open.
func (p *Poller) Remove(fd int) error {
	ev := unix.EpollEvent{}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, &ev); err != nil {
		return fmt.Errorf("netpoll: epoll_ctl del fd %d: %w", fd, err)
	}
	return nil
}

// Wait blocks until at least one registered fd is ready or timeoutMS
// elapses (-1 waits forever). The returned slice is reused across
// calls. An interrupted wait returns an empty slice, not an error, so
// the caller falls through to its shutdown check.
func (p *Poller) Wait(timeoutMS int) ([]Event, error) {
	n, err := unix.EpollWait(p.epfd, p.events, timeoutMS)
	if err != nil {
		if err == unix.EINTR {
			return p.out[:0], nil
		}
		return nil, fmt.Errorf("netpoll: epoll_wait: %w", err)
	}

	out := p.out[:0]
	for i := 0; i < n; i++ {
		out = append(out, Event{FD: int(p.events[i].Fd), Events: p.events[i].Events})
	}
	p.out = out
	return out, nil
}
