package nft

import (
	"math/big"
	"time"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/bnft/fault"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/ethereum/go-ethereum/common"
)

const ErrNotRedeemable = "Not redeemable!"

// Redeem burns the token and pays its backing out of the registry reserve,
// rescaled from the canonical unit to the reserve's own precision.
func (r *Registry) Redeem(st State, caller common.Address, id uint64, now time.Time) (*big.Int, error) {
	c, err := r.Collection(st)
	if err != nil {
		return nil, err
	}
	t, err := r.Token(st, id)
	if err != nil {
		return nil, err
	}
	if t.Owner != caller {
		return nil, fault.Unauthorized("caller %s is not the owner of token %d", caller.Hex(), id)
	}
	if now.Unix() < c.RedeemableAt {
		return nil, fault.New(fault.Temporal, ErrNotRedeemable)
	}
	if c.ReserveAsset == (common.Address{}) {
		return nil, fault.New(fault.State, "reserve asset not set")
	}

	reserve := asset.Fungible(c.ReserveAsset)
	decimals, err := asset.Decimals(st, reserve)
	if err != nil {
		return nil, err
	}
	amount := asset.Rescale(t.BackedAmount, asset.CanonicalDecimals, decimals)

	err = r.burn(st, c, t)
	if err != nil {
		return nil, err
	}
	err = asset.Transfer(st, reserve, r.address, caller, amount)
	if err != nil {
		return nil, err
	}
	err = st.WriteCollection(c)
	if err != nil {
		return nil, err
	}
	logger.Verbosef("Registry.Redeem(%d) %s => %s of %s\n", id, caller.Hex(), asset.Format(amount, decimals), c.ReserveAsset.Hex())
	return amount, r.emit(st, &event.Event{
		Kind:     event.KindRedeem,
		TokenId:  id,
		From:     caller,
		Amount:   amount,
		Currency: c.ReserveAsset,
	})
}

// burn is not a transfer, the pause flag does not apply.
func (r *Registry) burn(st State, c *Collection, t *Token) error {
	err := st.DeleteOwnerToken(t.Owner, t.Id)
	if err != nil {
		return err
	}
	err = st.DeleteToken(t.Id)
	if err != nil {
		return err
	}
	c.Supply -= 1
	return r.emit(st, &event.Event{Kind: event.KindTransfer, TokenId: t.Id, From: t.Owner})
}
