//go:build linux

package netpoll

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

const backlog = 128

// Listen opens a non-blocking IPv4 listening socket on the given port
// with SO_REUSEADDR set. It returns the fd and the port actually bound,
// which differs from the request when port 0 asks the kernel to pick.
func Listen(port int) (fd int, boundPort int, err error) {
	fd, err = unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, 0, fmt.Errorf("netpoll: socket: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("netpoll: setsockopt SO_REUSEADDR: %w", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: port}); err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("netpoll: bind port %d: %w", port, err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("netpoll: listen: %w", err)
	}

	bound, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return -1, 0, fmt.Errorf("netpoll: getsockname: %w", err)
	}
	if sa, ok := bound.(*unix.SockaddrInet4); ok {
		boundPort = sa.Port
	}
	return fd, boundPort, nil
}

// Accept takes one pending connection off the listener, already in
// non-blocking close-on-exec mode. The error is returned raw so callers
// can test it with WouldBlock.
func Accept(listenFD int) (fd int, remote string, err error) {
	fd, sa, err := unix.Accept4(listenFD, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		return -1, "", err
	}
	return fd, sockaddrString(sa), nil
}

// Read performs one non-blocking read. The error is returned raw.
func Read(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

// Write performs one non-blocking write. The error is returned raw.
func Write(fd int, data []byte) (int, error) {
	return unix.Write(fd, data)
}

// Close closes a socket fd, which also drops any epoll registration.
func Close(fd int) error {
	return unix.Close(fd)
}

// WouldBlock reports whether err is the non-blocking "try again later"
// signal.
func WouldBlock(err error) bool {
	return err == unix.EAGAIN || err == unix.EWOULDBLOCK
}

// ConnReset reports whether err means the peer dropped the connection.
func ConnReset(err error) bool {
	return err == unix.ECONNRESET || err == unix.EPIPE
}

// Interrupted reports whether err is a signal interruption.
func Interrupted(err error) bool {
	return err == unix.EINTR
}

func sockaddrString(sa unix.Sockaddr) string {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return fmt.Sprintf("%s:%d", net.IP(v.Addr[:]).String(), v.Port)
	case *unix.SockaddrInet6:
		return fmt.Sprintf("[%s]:%d", net.IP(v.Addr[:]).String(), v.Port)
	default:
		return "unknown"
	}
}
