package nft

import (
	"math/big"

	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/bnft/fault"
	"github.com/ethereum/go-ethereum/common"
)

const ErrSupplyExhausted = "There are no more tokens left to be minted!"

// Mint requires expectedId to be the next sequential id, so two admins
// racing on the same id can never both succeed.
func (r *Registry) Mint(st State, caller, to common.Address, uri string, amount *big.Int, expectedId uint64) (uint64, error) {
	c, err := r.ownedCollection(st, caller)
	if err != nil {
		return 0, err
	}
	id, err := r.mint(st, c, to, uri, amount, expectedId)
	if err != nil {
		return 0, err
	}
	return id, st.WriteCollection(c)
}

// MintBatch mints uris[i] backed by amounts[i] with ids starting at
// startingId. Any failure aborts the whole batch.
func (r *Registry) MintBatch(st State, caller, to common.Address, uris []string, amounts []*big.Int, startingId uint64) ([]uint64, error) {
	c, err := r.ownedCollection(st, caller)
	if err != nil {
		return nil, err
	}
	if len(uris) != len(amounts) {
		return nil, fault.Invalid("uris and amounts length mismatch %d %d", len(uris), len(amounts))
	}
	if len(uris) == 0 {
		return nil, fault.Invalid("empty mint batch")
	}
	if startingId != c.Counter {
		return nil, fault.Invalid("token id conflict %d, next is %d", startingId, c.Counter)
	}

	ids := make([]uint64, len(uris))
	for i := range uris {
		id, err := r.mint(st, c, to, uris[i], amounts[i], startingId+uint64(i))
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, st.WriteCollection(c)
}

func (r *Registry) mint(st State, c *Collection, to common.Address, uri string, amount *big.Int, expectedId uint64) (uint64, error) {
	if to == (common.Address{}) {
		return 0, fault.Invalid("mint to the zero address")
	}
	if expectedId != c.Counter {
		return 0, fault.Invalid("token id conflict %d, next is %d", expectedId, c.Counter)
	}
	if c.Counter > c.MaxSupply {
		return 0, fault.New(fault.Precondition, ErrSupplyExhausted)
	}
	if amount == nil || amount.Sign() < 0 {
		return 0, fault.Invalid("invalid backed amount %v", amount)
	}

	t := &Token{
		Id:           c.Counter,
		Owner:        to,
		URI:          uri,
		BackedAmount: new(big.Int).Set(amount),
	}
	err := st.WriteToken(t)
	if err != nil {
		return 0, err
	}
	err = st.WriteOwnerToken(to, t.Id)
	if err != nil {
		return 0, err
	}
	c.Counter += 1
	c.Supply += 1

	err = r.emit(st, &event.Event{
		Kind:    event.KindMint,
		TokenId: t.Id,
		To:      to,
		Amount:  t.BackedAmount,
		URI:     uri,
	})
	if err != nil {
		return 0, err
	}
	return t.Id, r.emit(st, &event.Event{
		Kind:    event.KindTransfer,
		TokenId: t.Id,
		To:      to,
	})
}
