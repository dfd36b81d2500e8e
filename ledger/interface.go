package ledger

import (
	"time"

	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/bnft/store"
)

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	Update(now time.Time, fn func(tx *store.Tx) error) ([]*event.Event, error)
	View(fn func(tx *store.Tx) error) error
}

type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function, a fixed time in tests for example.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}
