package squads

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/zcombinatorio/squads/errors"
)

// Msg is a request for the engine to take an action (make a state
// transition). It is just the request, and must be authorized by the
// wrapping Tx and the handler that processes it.
type Msg interface {
	Persistent

	// Path returns the routing path for this message, used by the Router
	// to locate the proper Handler. Must match [a-z0-9_]+/[a-z0-9_]+.
	Path() string

	// Validate performs a sanity check on the message content without
	// access to the state. A message failing validation is never
	// submitted.
	Validate() error
}

// Marshaller is anything that can be represented in binary.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal.
//
// This is separated from Marshaller, as Unmarshal almost always requires
// a pointer, and functions that only need to serialize can accept
// non-pointers via the Marshaller interface.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx represents the data sent from a member to the engine. It includes the
// actual message, along with information needed to authenticate the sender
// (cryptographic signatures), and anything else needed to pass through
// the decorator stack.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate.
	GetMsg() (Msg, error)
}

// TxDecoder can parse bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message, or (missing) if no message.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message from the transaction, validates it and
// loads it into the destination. Destination must be a non-nil pointer to
// the expected message type.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrState, "transaction without a message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrapf(err, "invalid message %T", msg)
	}

	dest := reflect.ValueOf(destination)
	val := reflect.ValueOf(msg)
	if dest.Kind() != reflect.Ptr || dest.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination must be a non-nil pointer, got %T", destination)
	}
	if got, want := val.Type(), dest.Type(); got != want {
		return errors.Wrapf(errors.ErrType, "want %s message, got %s", want, got)
	}
	dest.Elem().Set(val.Elem())
	return nil
}

// isPath is the RegExp to ensure the routes make sense.
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// MustValidatePath panics if the path of given message is not valid. Use
// it during registration to fail early on a malformed message
// declaration.
func MustValidatePath(msg Msg) {
	if p := msg.Path(); !isPath(p) {
		panic(fmt.Sprintf("message %T has an invalid path %q", msg, p))
	}
}
