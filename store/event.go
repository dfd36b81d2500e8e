package store

import (
	"encoding/binary"
	"time"

	"github.com/MixinNetwork/bnft/event"
	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofrs/uuid"
)

const (
	prefixEventPayload = "EVENT:PAYLOAD:"
	prefixEventTrace   = "EVENT:TRACE:"
	keyEventSequence   = "EVENT:SEQUENCE"
)

type eventRecord struct {
	Sequence  uint64
	TraceId   string
	Contract  common.Address
	Kind      string
	TokenId   uint64
	From      common.Address
	To        common.Address
	Amount    string
	Currency  common.Address
	URI       string
	Approved  bool
	CreatedAt time.Time
}

// ReadEventSequence returns the sequence of the latest event, zero for an
// empty log.
func (tx *Tx) ReadEventSequence() (uint64, error) {
	val, err := tx.get([]byte(keyEventSequence))
	if err != nil || len(val) != 8 {
		return 0, err
	}
	return binary.BigEndian.Uint64(val), nil
}

// WriteEvent appends ev to the log, assigning its sequence and trace id.
func (tx *Tx) WriteEvent(ev *event.Event) error {
	seq, err := tx.ReadEventSequence()
	if err != nil {
		return err
	}
	seq += 1
	ev.Seal(seq)
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = tx.now
	}

	r := &eventRecord{
		Sequence:  ev.Sequence,
		TraceId:   ev.TraceId.String(),
		Contract:  ev.Contract,
		Kind:      ev.Kind,
		TokenId:   ev.TokenId,
		From:      ev.From,
		To:        ev.To,
		Currency:  ev.Currency,
		URI:       ev.URI,
		Approved:  ev.Approved,
		CreatedAt: ev.CreatedAt,
	}
	if ev.Amount != nil {
		r.Amount = ev.Amount.String()
	}
	key := buildKey(prefixEventPayload, uint64ToBytes(seq))
	err = tx.writeMsgpack(key, r)
	if err != nil {
		return err
	}
	err = tx.set(buildKey(prefixEventTrace, ev.TraceId.Bytes()), uint64ToBytes(seq))
	if err != nil {
		return err
	}
	err = tx.set([]byte(keyEventSequence), uint64ToBytes(seq))
	if err != nil {
		return err
	}
	tx.events = append(tx.events, ev)
	return nil
}

func (tx *Tx) ReadEvent(seq uint64) (*event.Event, error) {
	var r eventRecord
	found, err := tx.readMsgpack(buildKey(prefixEventPayload, uint64ToBytes(seq)), &r)
	if err != nil || !found {
		return nil, err
	}
	return r.event()
}

func (tx *Tx) ReadEventByTrace(traceId uuid.UUID) (*event.Event, error) {
	val, err := tx.get(buildKey(prefixEventTrace, traceId.Bytes()))
	if err != nil || len(val) != 8 {
		return nil, err
	}
	return tx.ReadEvent(binary.BigEndian.Uint64(val))
}

// ListEvents returns up to limit events with a sequence greater than
// offset.
func (tx *Tx) ListEvents(offset uint64, limit int) ([]*event.Event, error) {
	seqs := tx.listEventSequences(offset, limit)
	evs := make([]*event.Event, 0, len(seqs))
	for _, seq := range seqs {
		ev, err := tx.ReadEvent(seq)
		if err != nil {
			return nil, err
		}
		evs = append(evs, ev)
	}
	return evs, nil
}

func (tx *Tx) listEventSequences(offset uint64, limit int) []uint64 {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixEventPayload)
	it := tx.txn.NewIterator(opts)
	defer it.Close()

	var seqs []uint64
	for it.Seek(buildKey(prefixEventPayload, uint64ToBytes(offset+1))); it.Valid(); it.Next() {
		key := it.Item().Key()
		seqs = append(seqs, binary.BigEndian.Uint64(key[len(opts.Prefix):]))
		if len(seqs) == limit {
			break
		}
	}
	return seqs
}

func (r *eventRecord) event() (*event.Event, error) {
	ev := &event.Event{
		Sequence:  r.Sequence,
		TraceId:   uuid.FromStringOrNil(r.TraceId),
		Contract:  r.Contract,
		Kind:      r.Kind,
		TokenId:   r.TokenId,
		From:      r.From,
		To:        r.To,
		Currency:  r.Currency,
		URI:       r.URI,
		Approved:  r.Approved,
		CreatedAt: r.CreatedAt,
	}
	if r.Amount != "" {
		amount, err := amountFromString(r.Amount)
		if err != nil {
			return nil, err
		}
		ev.Amount = amount
	}
	return ev, nil
}
