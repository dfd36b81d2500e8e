package ledger

import (
	"context"
	"math/big"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/market"
	"github.com/MixinNetwork/bnft/store"
	"github.com/ethereum/go-ethereum/common"
)

// AddListing prices token id in currency, the native sentinel address
// for the chain value or a registered fungible asset.
func (l *Ledger) AddListing(ctx context.Context, caller common.Address, id uint64, price *big.Int, currency common.Address) (*Receipt, error) {
	return l.update(ctx, "AddListing", caller, func(tx *store.Tx) error {
		return l.exchange.AddListing(tx, caller, id, price, asset.FromAddress(currency))
	})
}

func (l *Ledger) ChangeListingPrice(ctx context.Context, caller common.Address, id uint64, price *big.Int, currency common.Address) (*Receipt, error) {
	return l.update(ctx, "ChangeListingPrice", caller, func(tx *store.Tx) error {
		return l.exchange.ChangeListingPrice(tx, caller, id, price, asset.FromAddress(currency))
	})
}

func (l *Ledger) CancelListing(ctx context.Context, caller common.Address, id uint64) (*Receipt, error) {
	return l.update(ctx, "CancelListing", caller, func(tx *store.Tx) error {
		return l.exchange.CancelListing(tx, caller, id)
	})
}

// PurchaseListing buys token id. Value is the native amount attached to
// the call, nil for a fungible listing.
func (l *Ledger) PurchaseListing(ctx context.Context, caller common.Address, id uint64, value *big.Int) (*Receipt, error) {
	return l.update(ctx, "PurchaseListing", caller, func(tx *store.Tx) error {
		return l.exchange.PurchaseListing(tx, caller, id, value)
	})
}

func (l *Ledger) EnableCurrency(ctx context.Context, caller, token common.Address) (*Receipt, error) {
	return l.update(ctx, "EnableCurrency", caller, func(tx *store.Tx) error {
		return l.exchange.EnableCurrency(tx, caller, token)
	})
}

func (l *Ledger) DisableCurrency(ctx context.Context, caller, token common.Address) (*Receipt, error) {
	return l.update(ctx, "DisableCurrency", caller, func(tx *store.Tx) error {
		return l.exchange.DisableCurrency(tx, caller, token)
	})
}

func (l *Ledger) SetCollection(ctx context.Context, caller, collection common.Address) (*Receipt, error) {
	return l.update(ctx, "SetCollection", caller, func(tx *store.Tx) error {
		return l.exchange.SetCollection(tx, caller, collection)
	})
}

func (l *Ledger) SetTax(ctx context.Context, caller common.Address, rate uint64) (*Receipt, error) {
	return l.update(ctx, "SetTax", caller, func(tx *store.Tx) error {
		return l.exchange.SetTax(tx, caller, rate)
	})
}

func (l *Ledger) SetTaxRecipient(ctx context.Context, caller, recipient common.Address) (*Receipt, error) {
	return l.update(ctx, "SetTaxRecipient", caller, func(tx *store.Tx) error {
		return l.exchange.SetTaxRecipient(tx, caller, recipient)
	})
}

func (l *Ledger) TransferMarketOwnership(ctx context.Context, caller, owner common.Address) (*Receipt, error) {
	return l.update(ctx, "TransferMarketOwnership", caller, func(tx *store.Tx) error {
		return l.exchange.TransferOwnership(tx, caller, owner)
	})
}

func (l *Ledger) Market(ctx context.Context) (*market.Market, error) {
	var m *market.Market
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		m, err = l.exchange.Market(tx)
		return err
	})
	return m, err
}

// Listing returns nil if token id is not listed.
func (l *Ledger) Listing(ctx context.Context, id uint64) (*market.Listing, error) {
	var listing *market.Listing
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		listing, err = l.exchange.Listing(tx, id)
		return err
	})
	return listing, err
}

func (l *Ledger) ListingSlice(ctx context.Context, offset, count int) ([]*market.Listing, error) {
	var listings []*market.Listing
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		listings, err = l.exchange.ListingSlice(tx, offset, count)
		return err
	})
	return listings, err
}

func (l *Ledger) IsAccepted(ctx context.Context, currency common.Address) (bool, error) {
	var accepted bool
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		accepted, err = l.exchange.IsAccepted(tx, asset.FromAddress(currency))
		return err
	})
	return accepted, err
}
