package store

import (
	"context"
	"time"

	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

type BadgerStore struct {
	db *badger.DB
}

func OpenBadger(ctx context.Context, path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger %s", path)
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			lsm, vlog := db.Size()
			logger.Printf("Badger LSM %d VLOG %d\n", lsm, vlog)
			if lsm > 1024*1024*8 || vlog > 1024*1024*32 {
				err := db.RunValueLogGC(0.5)
				logger.Printf("Badger RunValueLogGC %v\n", err)
			}
		}
	}()

	return &BadgerStore{
		db: db,
	}, nil
}

// OpenMemory keeps everything in memory, for tests and dry runs.
func OpenMemory() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger in memory")
	}
	return &BadgerStore{db: db}, nil
}

func (bs *BadgerStore) Close() error {
	return bs.db.Close()
}

func (bs *BadgerStore) Badger() *badger.DB {
	return bs.db
}

// Update runs fn in a single read-write transaction stamped with now. The
// transaction commits only if fn returns nil, otherwise nothing fn wrote is
// kept. The events fn emitted are returned on commit.
func (bs *BadgerStore) Update(now time.Time, fn func(tx *Tx) error) ([]*event.Event, error) {
	var events []*event.Event
	err := bs.db.Update(func(txn *badger.Txn) error {
		tx := &Tx{txn: txn, now: now}
		err := fn(tx)
		if err != nil {
			return err
		}
		events = tx.events
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (bs *BadgerStore) View(fn func(tx *Tx) error) error {
	return bs.db.View(func(txn *badger.Txn) error {
		return fn(&Tx{txn: txn})
	})
}

func (bs *BadgerStore) WriteProperty(key, val []byte) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

func (bs *BadgerStore) ReadProperty(key []byte) ([]byte, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}
