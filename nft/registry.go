package nft

import (
	"math/big"
	"strconv"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/bnft/fault"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/ethereum/go-ethereum/common"
)

const (
	DefaultMaxSupply = 999
	MaxPageSize      = 10000
)

// Registry holds the reserve-backed token logic. It keeps no state of its
// own, everything lives in the State handed to each call.
type Registry struct {
	address common.Address
}

func NewRegistry(address common.Address) *Registry {
	return &Registry{address: address}
}

func (r *Registry) Address() common.Address {
	return r.address
}

// Genesis writes the initial collection unless one already exists.
func (r *Registry) Genesis(st State, c *Collection) error {
	old, err := st.ReadCollection(r.address)
	if err != nil || old != nil {
		return err
	}
	if c.Owner == (common.Address{}) {
		return fault.Invalid("registry owner is the zero address")
	}
	err = asset.RegisterContract(st, r.address, asset.KindCollection)
	if err != nil {
		return err
	}
	c.Address = r.address
	if c.Counter == 0 {
		c.Counter = 1
	}
	if c.MaxSupply == 0 {
		c.MaxSupply = DefaultMaxSupply
	}
	return st.WriteCollection(c)
}

func (r *Registry) Collection(st State) (*Collection, error) {
	c, err := st.ReadCollection(r.address)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fault.Newf(fault.Internal, "registry %s not initialized", r.address.Hex())
	}
	return c, nil
}

func (r *Registry) ownedCollection(st State, caller common.Address) (*Collection, error) {
	c, err := r.Collection(st)
	if err != nil {
		return nil, err
	}
	if c.Owner != caller {
		return nil, fault.Unauthorized("caller %s is not the registry owner", caller.Hex())
	}
	return c, nil
}

func (r *Registry) TransferOwnership(st State, caller, owner common.Address) error {
	c, err := r.ownedCollection(st, caller)
	if err != nil {
		return err
	}
	if owner == (common.Address{}) {
		return fault.Invalid("new owner is the zero address")
	}
	c.Owner = owner
	err = st.WriteCollection(c)
	if err != nil {
		return err
	}
	return r.emit(st, &event.Event{Kind: event.KindOwnershipTransferred, From: caller, To: owner})
}

// SetReserveAsset points redemptions at a registered fungible asset. It is
// deployment configuration: backing already minted is not revalued.
func (r *Registry) SetReserveAsset(st State, caller, reserve common.Address) error {
	c, err := r.ownedCollection(st, caller)
	if err != nil {
		return err
	}
	if reserve == (common.Address{}) {
		return fault.Invalid("reserve asset is the zero address")
	}
	kind, err := st.ReadContract(reserve)
	if err != nil {
		return err
	}
	if kind != asset.KindFungible {
		return fault.Invalid("reserve %s is not a fungible asset", reserve.Hex())
	}
	if c.Supply > 0 && c.ReserveAsset != reserve {
		logger.Printf("Registry.SetReserveAsset(%s) %s => %s with %d tokens outstanding\n", r.address.Hex(), c.ReserveAsset.Hex(), reserve.Hex(), c.Supply)
	}
	c.ReserveAsset = reserve
	return st.WriteCollection(c)
}

func (r *Registry) SetRedeemableAt(st State, caller common.Address, ts int64) error {
	c, err := r.ownedCollection(st, caller)
	if err != nil {
		return err
	}
	c.RedeemableAt = ts
	return st.WriteCollection(c)
}

func (r *Registry) SetBaseURI(st State, caller common.Address, base string) error {
	c, err := r.ownedCollection(st, caller)
	if err != nil {
		return err
	}
	c.BaseURI = base
	return st.WriteCollection(c)
}

// SetTokensURI replaces uri suffixes, the backed amounts are untouched.
func (r *Registry) SetTokensURI(st State, caller common.Address, ids []uint64, uris []string) error {
	_, err := r.ownedCollection(st, caller)
	if err != nil {
		return err
	}
	if len(ids) != len(uris) {
		return fault.Invalid("ids and uris length mismatch %d %d", len(ids), len(uris))
	}
	for i, id := range ids {
		t, err := r.Token(st, id)
		if err != nil {
			return err
		}
		t.URI = uris[i]
		err = st.WriteToken(t)
		if err != nil {
			return err
		}
		err = r.emit(st, &event.Event{Kind: event.KindTokenURI, TokenId: id, URI: uris[i]})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Pause(st State, caller common.Address) error {
	return r.setPaused(st, caller, true)
}

func (r *Registry) Unpause(st State, caller common.Address) error {
	return r.setPaused(st, caller, false)
}

func (r *Registry) setPaused(st State, caller common.Address, paused bool) error {
	c, err := r.ownedCollection(st, caller)
	if err != nil {
		return err
	}
	if c.Paused == paused {
		return fault.Newf(fault.State, "registry paused already %t", paused)
	}
	c.Paused = paused
	err = st.WriteCollection(c)
	if err != nil {
		return err
	}
	kind := event.KindUnpaused
	if paused {
		kind = event.KindPaused
	}
	return r.emit(st, &event.Event{Kind: kind, From: caller})
}

// Withdraw sweeps any asset balance the registry holds to its owner,
// the reserve included.
func (r *Registry) Withdraw(st State, caller, token common.Address, amount *big.Int) error {
	_, err := r.ownedCollection(st, caller)
	if err != nil {
		return err
	}
	cur := asset.FromAddress(token)
	err = asset.Transfer(st, cur, r.address, caller, amount)
	if err != nil {
		return err
	}
	return r.emit(st, &event.Event{
		Kind:     event.KindWithdraw,
		To:       caller,
		Amount:   amount,
		Currency: cur.Address(),
	})
}

func (r *Registry) Token(st State, id uint64) (*Token, error) {
	t, err := st.ReadToken(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fault.Newf(fault.State, "nonexistent token %d", id)
	}
	return t, nil
}

func (r *Registry) OwnerOf(st State, id uint64) (common.Address, error) {
	t, err := r.Token(st, id)
	if err != nil {
		return common.Address{}, err
	}
	return t.Owner, nil
}

func (r *Registry) BalanceOf(st State, owner common.Address) (uint64, error) {
	if owner == (common.Address{}) {
		return 0, fault.Invalid("balance query for the zero address")
	}
	return st.ReadOwnerBalance(owner)
}

func (r *Registry) BackedAmount(st State, id uint64) (*big.Int, error) {
	t, err := r.Token(st, id)
	if err != nil {
		return nil, err
	}
	return t.BackedAmount, nil
}

func (r *Registry) TokenURI(st State, id uint64) (string, error) {
	t, err := r.Token(st, id)
	if err != nil {
		return "", err
	}
	c, err := r.Collection(st)
	if err != nil {
		return "", err
	}
	switch {
	case c.BaseURI == "":
		return t.URI, nil
	case t.URI != "":
		return c.BaseURI + t.URI, nil
	}
	return c.BaseURI + strconv.FormatUint(id, 10), nil
}

// TokenIdsPage always returns exactly size slots, ids the owner holds from
// offset on in ascending order, the rest left zero.
func (r *Registry) TokenIdsPage(st State, owner common.Address, offset, size int) ([]uint64, error) {
	if offset < 0 || size < 0 || size > MaxPageSize {
		return nil, fault.Invalid("invalid page %d %d", offset, size)
	}
	page := make([]uint64, size)
	if size == 0 {
		return page, nil
	}
	ids, err := st.ListOwnerTokens(owner, offset, size)
	if err != nil {
		return nil, err
	}
	copy(page, ids)
	return page, nil
}

func (r *Registry) emit(st State, ev *event.Event) error {
	ev.Contract = r.address
	return st.WriteEvent(ev)
}
