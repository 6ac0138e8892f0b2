package session

import (
	"errors"
	"fmt"
)

var (
	ErrConnectionClosed = errors.New("session: connection closed")
	ErrAlreadyOpen      = errors.New("session: connection already open")
	ErrUnknownMessage   = errors.New("session: message not in dialect")
	ErrStreamRunning    = errors.New("session: stream already running")
	ErrStreamClosed     = errors.New("session: stream finished")
)

// TransportError is a fatal transport failure. The Conn that returned it
// is already Closed.
type TransportError struct {
	Link string
	Op   string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("session: %s %s: %v", e.Link, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
