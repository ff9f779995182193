package resource

import (
	"errors"
	"fmt"

	"github.com/ugparu/wlshm"
)

var (
	// ErrUnknownObject is returned when a request targets an id with no live object.
	ErrUnknownObject = errors.New("unknown object")
	// ErrBadRequest is returned when the target object does not take the request.
	ErrBadRequest = errors.New("request not accepted by object")
	// ErrUnknownGlobal is returned when binding a kind no global advertises.
	ErrUnknownGlobal = errors.New("unknown global")
	// ErrGlobalExists is returned when a kind is advertised twice.
	ErrGlobalExists = errors.New("global already exists")
	// ErrClientDestroyed is returned for any operation on a destroyed client.
	ErrClientDestroyed = errors.New("client destroyed")
)

// ProtocolError is the first protocol error posted against a client.
type ProtocolError struct {
	ObjectID uint32
	Kind     wlshm.ObjectKind
	Code     wlshm.ErrorCode
	Message  string
}

// Error returns the error message for ProtocolError.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s#%d: error %d (%s): %s", e.Kind, e.ObjectID, e.Code, e.Code, e.Message)
}
