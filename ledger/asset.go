package ledger

import (
	"context"
	"math/big"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/store"
	"github.com/ethereum/go-ethereum/common"
)

// IssueAsset credits new units of token to an account, the caller must be
// the asset issuer. The native sentinel address issues chain value.
func (l *Ledger) IssueAsset(ctx context.Context, caller, token, to common.Address, amount *big.Int) (*Receipt, error) {
	return l.update(ctx, "IssueAsset", caller, func(tx *store.Tx) error {
		return asset.Issue(tx, caller, asset.FromAddress(token), to, amount)
	})
}

func (l *Ledger) TransferAsset(ctx context.Context, caller, token, to common.Address, amount *big.Int) (*Receipt, error) {
	return l.update(ctx, "TransferAsset", caller, func(tx *store.Tx) error {
		return asset.Transfer(tx, asset.FromAddress(token), caller, to, amount)
	})
}

func (l *Ledger) ApproveAsset(ctx context.Context, caller, token, spender common.Address, amount *big.Int) (*Receipt, error) {
	return l.update(ctx, "ApproveAsset", caller, func(tx *store.Tx) error {
		return asset.Approve(tx, asset.FromAddress(token), caller, spender, amount)
	})
}

func (l *Ledger) TransferAssetFrom(ctx context.Context, caller, token, from, to common.Address, amount *big.Int) (*Receipt, error) {
	return l.update(ctx, "TransferAssetFrom", caller, func(tx *store.Tx) error {
		return asset.TransferFrom(tx, asset.FromAddress(token), caller, from, to, amount)
	})
}

func (l *Ledger) AssetInfo(ctx context.Context, token common.Address) (*asset.Info, error) {
	var info *asset.Info
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		info, err = asset.Lookup(tx, asset.FromAddress(token))
		return err
	})
	return info, err
}

func (l *Ledger) AssetBalance(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	var balance *big.Int
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		balance, err = asset.BalanceOf(tx, asset.FromAddress(token), owner)
		return err
	})
	return balance, err
}

func (l *Ledger) AssetAllowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	var allowance *big.Int
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		allowance, err = asset.Allowance(tx, asset.FromAddress(token), owner, spender)
		return err
	})
	return allowance, err
}
