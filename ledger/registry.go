package ledger

import (
	"context"
	"math/big"

	"github.com/MixinNetwork/bnft/nft"
	"github.com/MixinNetwork/bnft/store"
	"github.com/ethereum/go-ethereum/common"
)

func (l *Ledger) Mint(ctx context.Context, caller, to common.Address, uri string, amount *big.Int, expectedId uint64) (*Receipt, error) {
	var id uint64
	r, err := l.update(ctx, "Mint", caller, func(tx *store.Tx) error {
		var err error
		id, err = l.registry.Mint(tx, caller, to, uri, amount, expectedId)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.TokenIds = []uint64{id}
	return r, nil
}

func (l *Ledger) MintBatch(ctx context.Context, caller, to common.Address, uris []string, amounts []*big.Int, startingId uint64) (*Receipt, error) {
	var ids []uint64
	r, err := l.update(ctx, "MintBatch", caller, func(tx *store.Tx) error {
		var err error
		ids, err = l.registry.MintBatch(tx, caller, to, uris, amounts, startingId)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.TokenIds = ids
	return r, nil
}

// Redeem burns the token and settles its backing in the reserve asset,
// the receipt amount is what the caller received.
func (l *Ledger) Redeem(ctx context.Context, caller common.Address, id uint64) (*Receipt, error) {
	var amount *big.Int
	r, err := l.update(ctx, "Redeem", caller, func(tx *store.Tx) error {
		var err error
		amount, err = l.registry.Redeem(tx, caller, id, tx.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	r.Amount = amount
	return r, nil
}

func (l *Ledger) Withdraw(ctx context.Context, caller, token common.Address, amount *big.Int) (*Receipt, error) {
	return l.update(ctx, "Withdraw", caller, func(tx *store.Tx) error {
		return l.registry.Withdraw(tx, caller, token, amount)
	})
}

func (l *Ledger) SetReserveAsset(ctx context.Context, caller, reserve common.Address) (*Receipt, error) {
	return l.update(ctx, "SetReserveAsset", caller, func(tx *store.Tx) error {
		return l.registry.SetReserveAsset(tx, caller, reserve)
	})
}

func (l *Ledger) SetRedeemableAt(ctx context.Context, caller common.Address, ts int64) (*Receipt, error) {
	return l.update(ctx, "SetRedeemableAt", caller, func(tx *store.Tx) error {
		return l.registry.SetRedeemableAt(tx, caller, ts)
	})
}

func (l *Ledger) SetBaseURI(ctx context.Context, caller common.Address, base string) (*Receipt, error) {
	return l.update(ctx, "SetBaseURI", caller, func(tx *store.Tx) error {
		return l.registry.SetBaseURI(tx, caller, base)
	})
}

func (l *Ledger) SetTokensURI(ctx context.Context, caller common.Address, ids []uint64, uris []string) (*Receipt, error) {
	return l.update(ctx, "SetTokensURI", caller, func(tx *store.Tx) error {
		return l.registry.SetTokensURI(tx, caller, ids, uris)
	})
}

func (l *Ledger) Pause(ctx context.Context, caller common.Address) (*Receipt, error) {
	return l.update(ctx, "Pause", caller, func(tx *store.Tx) error {
		return l.registry.Pause(tx, caller)
	})
}

func (l *Ledger) Unpause(ctx context.Context, caller common.Address) (*Receipt, error) {
	return l.update(ctx, "Unpause", caller, func(tx *store.Tx) error {
		return l.registry.Unpause(tx, caller)
	})
}

func (l *Ledger) TransferRegistryOwnership(ctx context.Context, caller, owner common.Address) (*Receipt, error) {
	return l.update(ctx, "TransferRegistryOwnership", caller, func(tx *store.Tx) error {
		return l.registry.TransferOwnership(tx, caller, owner)
	})
}

func (l *Ledger) Approve(ctx context.Context, caller, to common.Address, id uint64) (*Receipt, error) {
	return l.update(ctx, "Approve", caller, func(tx *store.Tx) error {
		return l.registry.Approve(tx, caller, to, id)
	})
}

func (l *Ledger) SetApprovalForAll(ctx context.Context, caller, operator common.Address, approved bool) (*Receipt, error) {
	return l.update(ctx, "SetApprovalForAll", caller, func(tx *store.Tx) error {
		return l.registry.SetApprovalForAll(tx, caller, operator, approved)
	})
}

func (l *Ledger) TransferFrom(ctx context.Context, caller, from, to common.Address, id uint64) (*Receipt, error) {
	return l.update(ctx, "TransferFrom", caller, func(tx *store.Tx) error {
		return l.registry.TransferFrom(tx, caller, from, to, id)
	})
}

func (l *Ledger) Collection(ctx context.Context) (*nft.Collection, error) {
	var c *nft.Collection
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		c, err = l.registry.Collection(tx)
		return err
	})
	return c, err
}

// CurrentCounter is the id the next mint must carry.
func (l *Ledger) CurrentCounter(ctx context.Context) (uint64, error) {
	c, err := l.Collection(ctx)
	if err != nil {
		return 0, err
	}
	return c.Counter, nil
}

func (l *Ledger) TotalSupply(ctx context.Context) (uint64, error) {
	c, err := l.Collection(ctx)
	if err != nil {
		return 0, err
	}
	return c.Supply, nil
}

func (l *Ledger) Token(ctx context.Context, id uint64) (*nft.Token, error) {
	var t *nft.Token
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		t, err = l.registry.Token(tx, id)
		return err
	})
	return t, err
}

func (l *Ledger) OwnerOf(ctx context.Context, id uint64) (common.Address, error) {
	var owner common.Address
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		owner, err = l.registry.OwnerOf(tx, id)
		return err
	})
	return owner, err
}

func (l *Ledger) BalanceOf(ctx context.Context, owner common.Address) (uint64, error) {
	var balance uint64
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		balance, err = l.registry.BalanceOf(tx, owner)
		return err
	})
	return balance, err
}

func (l *Ledger) BackedAmount(ctx context.Context, id uint64) (*big.Int, error) {
	var amount *big.Int
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		amount, err = l.registry.BackedAmount(tx, id)
		return err
	})
	return amount, err
}

func (l *Ledger) TokenURI(ctx context.Context, id uint64) (string, error) {
	var uri string
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		uri, err = l.registry.TokenURI(tx, id)
		return err
	})
	return uri, err
}

func (l *Ledger) TokenIdsPage(ctx context.Context, owner common.Address, offset, size int) ([]uint64, error) {
	var page []uint64
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		page, err = l.registry.TokenIdsPage(tx, owner, offset, size)
		return err
	})
	return page, err
}

func (l *Ledger) GetApproved(ctx context.Context, id uint64) (common.Address, error) {
	var approved common.Address
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		approved, err = l.registry.GetApproved(tx, id)
		return err
	})
	return approved, err
}

func (l *Ledger) IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error) {
	var approved bool
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		approved, err = l.registry.IsApprovedForAll(tx, owner, operator)
		return err
	})
	return approved, err
}
