package relaycontrol

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRelay  = errors.New("relaycontrol: relay number out of range")
	ErrInvalidState  = errors.New("relaycontrol: invalid relay state")
	ErrFrameLength   = errors.New("relaycontrol: frame must be 8 bytes")
	ErrBadMarker     = errors.New("relaycontrol: bad frame marker")
	ErrUnknownOpcode = errors.New("relaycontrol: unknown opcode")
	ErrChecksum      = errors.New("relaycontrol: checksum mismatch")
	ErrPayload       = errors.New("relaycontrol: unexpected frame payload")
)

// ConnectionError is returned when the board cannot be reached: refused,
// timed out or unresolvable. The core never retries.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("relaycontrol: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TransportError is a read or write failure on an established connection,
// including short reads.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("relaycontrol: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// PreconditionError reports an operation issued while the session was not
// in a state that allows it. No I/O has been performed when it is returned.
type PreconditionError struct {
	Op    string
	State SessionState
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("relaycontrol: %s not allowed, session is %s", e.Op, e.State)
}
