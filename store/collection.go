package store

import (
	"encoding/binary"

	"github.com/MixinNetwork/bnft/nft"
	"github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const (
	prefixCollectionPayload = "COLLECTIBLES:COLLECTION:"
	prefixTokenPayload      = "COLLECTIBLES:TOKEN:PAYLOAD:"
	prefixTokenOwner        = "COLLECTIBLES:TOKEN:OWNER:"
	prefixOwnerBalance      = "COLLECTIBLES:OWNER:BALANCE:"
	prefixOwnerOperator     = "COLLECTIBLES:OWNER:OPERATOR:"
)

type tokenRecord struct {
	Id           uint64
	Owner        common.Address
	URI          string
	BackedAmount string
	Approved     common.Address
}

func (tx *Tx) ReadCollection(addr common.Address) (*nft.Collection, error) {
	var c nft.Collection
	found, err := tx.readMsgpack(buildKey(prefixCollectionPayload, addr[:]), &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (tx *Tx) WriteCollection(c *nft.Collection) error {
	return tx.writeMsgpack(buildKey(prefixCollectionPayload, c.Address[:]), c)
}

func (tx *Tx) ReadToken(id uint64) (*nft.Token, error) {
	var r tokenRecord
	found, err := tx.readMsgpack(buildKey(prefixTokenPayload, uint64ToBytes(id)), &r)
	if err != nil || !found {
		return nil, err
	}
	amount, err := amountFromString(r.BackedAmount)
	if err != nil {
		return nil, err
	}
	return &nft.Token{
		Id:           r.Id,
		Owner:        r.Owner,
		URI:          r.URI,
		BackedAmount: amount,
		Approved:     r.Approved,
	}, nil
}

func (tx *Tx) WriteToken(t *nft.Token) error {
	r := &tokenRecord{
		Id:           t.Id,
		Owner:        t.Owner,
		URI:          t.URI,
		BackedAmount: amountToString(t.BackedAmount),
		Approved:     t.Approved,
	}
	return tx.writeMsgpack(buildKey(prefixTokenPayload, uint64ToBytes(t.Id)), r)
}

func (tx *Tx) DeleteToken(id uint64) error {
	return tx.delete(buildKey(prefixTokenPayload, uint64ToBytes(id)))
}

func (tx *Tx) ReadOwnerBalance(owner common.Address) (uint64, error) {
	val, err := tx.get(buildKey(prefixOwnerBalance, owner[:]))
	if err != nil || len(val) == 0 {
		return 0, err
	}
	return binary.BigEndian.Uint64(val), nil
}

func (tx *Tx) WriteOwnerToken(owner common.Address, id uint64) error {
	key := buildKey(prefixTokenOwner, owner[:], uint64ToBytes(id))
	found, err := tx.has(key)
	if err != nil || found {
		return err
	}
	err = tx.set(key, []byte{1})
	if err != nil {
		return err
	}
	return tx.addOwnerBalance(owner, 1)
}

func (tx *Tx) DeleteOwnerToken(owner common.Address, id uint64) error {
	key := buildKey(prefixTokenOwner, owner[:], uint64ToBytes(id))
	found, err := tx.has(key)
	if err != nil {
		return err
	}
	if !found {
		panic(id)
	}
	err = tx.delete(key)
	if err != nil {
		return err
	}
	return tx.addOwnerBalance(owner, -1)
}

func (tx *Tx) addOwnerBalance(owner common.Address, delta int) error {
	bal, err := tx.ReadOwnerBalance(owner)
	if err != nil {
		return err
	}
	key := buildKey(prefixOwnerBalance, owner[:])
	bal = uint64(int64(bal) + int64(delta))
	if bal == 0 {
		return tx.delete(key)
	}
	return tx.set(key, uint64ToBytes(bal))
}

func (tx *Tx) ListOwnerTokens(owner common.Address, offset, limit int) ([]uint64, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = buildKey(prefixTokenOwner, owner[:])
	it := tx.txn.NewIterator(opts)
	defer it.Close()

	var ids []uint64
	skipped := 0
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		if skipped < offset {
			skipped++
			continue
		}
		key := it.Item().Key()
		if len(key) != len(opts.Prefix)+8 {
			return nil, errors.Errorf("malformed owner key %x", key)
		}
		ids = append(ids, binary.BigEndian.Uint64(key[len(opts.Prefix):]))
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}

func (tx *Tx) ReadOperator(owner, operator common.Address) (bool, error) {
	return tx.has(buildKey(prefixOwnerOperator, owner[:], operator[:]))
}

func (tx *Tx) WriteOperator(owner, operator common.Address, approved bool) error {
	key := buildKey(prefixOwnerOperator, owner[:], operator[:])
	if !approved {
		return tx.delete(key)
	}
	return tx.set(key, []byte{1})
}
