package ws

import (
	"sync"

	"github.com/google/uuid"

	"paydash/internal/errors"
)

// sendBufferSize bounds per-session backpressure. A session that cannot
// drain this many frames is torn down rather than stalling the room.
const sendBufferSize = 64

// Conn is the transport-level subset of a websocket connection the gateway
// needs. Tests substitute their own implementation.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Session is one long-lived client subscription to a tenant room. Frames
// are written by a single pump goroutine; everything else only enqueues.
type Session struct {
	ID       string
	TenantID string

	conn Conn
	send chan interface{}
	done chan struct{}
	once sync.Once
}

func NewSession(tenantID string, conn Conn) *Session {
	return &Session{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		conn:     conn,
		send:     make(chan interface{}, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// Enqueue hands a frame to the write pump. It never blocks: a closed
// session or a full buffer is reported as a stream error and the caller
// drops the session.
func (s *Session) Enqueue(v interface{}) error {
	select {
	case <-s.done:
		return errors.ErrSessionClosed
	default:
	}
	select {
	case s.send <- v:
		return nil
	default:
		return errors.ErrSessionBackpressure
	}
}

// Close is idempotent and releases the pump and the transport.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// WritePump serializes all writes to the transport. It exits on the first
// write error or on Close.
func (s *Session) WritePump() {
	for {
		select {
		case <-s.done:
			return
		case v := <-s.send:
			if err := s.conn.WriteJSON(v); err != nil {
				s.Close()
				return
			}
		}
	}
}
