package transport

import (
	"context"
	"fmt"
	"net"
)

// PacketConn is the subset of net.PacketConn a Session writes through.
type PacketConn interface {
	WriteTo(p []byte, addr net.Addr) (int, error)
	Close() error
}

// Session owns one connectionless socket and the fixed destination every
// datagram is sent to. It is not safe for concurrent use.
type Session struct {
	conn PacketConn
	dest net.Addr
}

// Open resolves destination ("host:port") and listens on an ephemeral local
// port of the matching address family.
func Open(ctx context.Context, destination string) (*Session, error) {
	raddr, err := net.ResolveUDPAddr("udp", destination)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %q: %w", ErrTransportUnavailable, destination, err)
	}
	if raddr.Port == 0 {
		return nil, fmt.Errorf("%w: destination %q has no port", ErrTransportUnavailable, destination)
	}

	network := "udp6"
	if raddr.IP == nil || raddr.IP.To4() != nil {
		network = "udp4"
	}

	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, network, ":0")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s socket: %w", ErrTransportUnavailable, network, err)
	}
	return NewSession(conn, raddr), nil
}

// NewSession wraps an already open connection.
func NewSession(conn PacketConn, dest net.Addr) *Session {
	return &Session{conn: conn, dest: dest}
}

// Destination returns the fixed datagram destination.
func (s *Session) Destination() net.Addr {
	return s.dest
}

// Send writes frame as a single datagram and returns the bytes accepted.
// A short write is reported as a failure.
func (s *Session) Send(frame []byte) (int, error) {
	if s == nil || s.conn == nil {
		return 0, fmt.Errorf("%w: %w", ErrSendFailed, ErrClosed)
	}
	n, err := s.conn.WriteTo(frame, s.dest)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	if n != len(frame) {
		return n, fmt.Errorf("%w: short write of %d/%d bytes", ErrSendFailed, n, len(frame))
	}
	return n, nil
}

// Close releases the socket. It is safe to call more than once and on a nil
// Session; close errors are discarded so shutdown always proceeds.
func (s *Session) Close() {
	if s == nil || s.conn == nil {
		return
	}
	_ = s.conn.Close()
	s.conn = nil
}

// Closed reports whether the session no longer holds a socket.
func (s *Session) Closed() bool {
	return s == nil || s.conn == nil
}
