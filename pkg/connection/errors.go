package connection

import (
	"errors"
	"fmt"
)

// Status guard errors. Each StateError also matches ErrInvalidTransition.
var (
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrAlreadyConnected     = errors.New("already connected")
	ErrAlreadyConnecting    = errors.New("already connecting")
	ErrNotConnected         = errors.New("not connected")
	ErrAlreadyDisconnecting = errors.New("already disconnecting")
	ErrCannotReconnect      = errors.New("cannot reconnect")
)

// StateError reports an operation rejected by the status guard. The status
// is the one observed at rejection and is left unchanged.
type StateError struct {
	Op     string
	Status Status
	Err    error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v (status %s)", e.Op, e.Err, e.Status)
}

func (e *StateError) Unwrap() []error {
	return []error{ErrInvalidTransition, e.Err}
}

// TransportError wraps a platform error. The manager has already been
// returned to notConnected when one is reported.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
