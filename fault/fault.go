package fault

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind int

const (
	Internal Kind = iota
	Authorization
	Precondition
	Temporal
	State
	Funds
)

func (k Kind) String() string {
	switch k {
	case Authorization:
		return "authorization"
	case Precondition:
		return "precondition"
	case Temporal:
		return "temporal"
	case State:
		return "state"
	case Funds:
		return "funds"
	}
	return "internal"
}

// Error is the failure of a ledger operation. The whole operation is
// discarded whenever one is returned.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) error {
	return Newf(Authorization, format, args...)
}

func Invalid(format string, args ...interface{}) error {
	return Newf(Precondition, format, args...)
}

// KindOf reports Internal for errors raised outside this package, such as
// storage failures wrapped with errors.Wrap.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
