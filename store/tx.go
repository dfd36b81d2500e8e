package store

import (
	"time"

	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

// Tx is the view of the ledger a single operation works on. It implements
// the state interfaces of the asset, nft and market packages.
type Tx struct {
	txn    *badger.Txn
	now    time.Time
	events []*event.Event
}

func (tx *Tx) Now() time.Time {
	return tx.now
}

func (tx *Tx) get(key []byte) ([]byte, error) {
	item, err := tx.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "get %q", key)
	}
	return item.ValueCopy(nil)
}

func (tx *Tx) has(key []byte) (bool, error) {
	_, err := tx.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	} else if err != nil {
		return false, errors.Wrapf(err, "get %q", key)
	}
	return true, nil
}

func (tx *Tx) set(key, val []byte) error {
	err := tx.txn.Set(key, val)
	return errors.Wrapf(err, "set %q", key)
}

func (tx *Tx) delete(key []byte) error {
	err := tx.txn.Delete(key)
	return errors.Wrapf(err, "delete %q", key)
}

// readMsgpack decodes the value at key into val and reports whether the
// key existed.
func (tx *Tx) readMsgpack(key []byte, val interface{}) (bool, error) {
	buf, err := tx.get(key)
	if err != nil || buf == nil {
		return false, err
	}
	err = common.MsgpackUnmarshal(buf, val)
	if err != nil {
		return false, errors.Wrapf(err, "decode %q", key)
	}
	return true, nil
}

func (tx *Tx) writeMsgpack(key []byte, val interface{}) error {
	return tx.set(key, common.MsgpackMarshalPanic(val))
}
