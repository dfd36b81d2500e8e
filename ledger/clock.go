package ledger

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/MixinNetwork/mixin/logger"
)

const clockStorePropertyKey = "LEDGER:CLOCK:MONOTONIC"

// MonotonicClock never hands out a time earlier than one it already did,
// across restarts too, so block timestamps never move backwards.
type MonotonicClock struct {
	sync.Mutex
	store Store
	now   time.Time
}

func NewClock(store Store) (*MonotonicClock, error) {
	bs, err := store.ReadProperty([]byte(clockStorePropertyKey))
	if err != nil {
		return nil, err
	}
	var ts time.Time
	if len(bs) == 8 {
		ts = time.Unix(0, int64(binary.BigEndian.Uint64(bs)))
	}
	clock := new(MonotonicClock)
	clock.store = store
	clock.now = ts
	return clock, nil
}

func (c *MonotonicClock) Now() time.Time {
	c.Lock()
	defer c.Unlock()

	now := time.Now()
	if now.After(c.now) {
		c.now = now
	} else {
		c.now = c.now.Add(time.Nanosecond)
	}

	val := binary.BigEndian.AppendUint64(nil, uint64(c.now.UnixNano()))
	err := c.store.WriteProperty([]byte(clockStorePropertyKey), val)
	if err != nil {
		logger.Printf("MonotonicClock.WriteProperty() => %v\n", err)
	}
	return c.now
}
