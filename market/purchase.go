package market

import (
	"math/big"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/bnft/fault"
	"github.com/ethereum/go-ethereum/common"
)

// Split returns the protocol tax floor(price*rate/TaxDenominator) and what
// is left for the seller.
func Split(price *big.Int, rate uint64) (*big.Int, *big.Int, error) {
	tax := new(big.Int).Mul(price, new(big.Int).SetUint64(rate))
	tax.Quo(tax, big.NewInt(TaxDenominator))
	if tax.Cmp(price) > 0 {
		return nil, nil, fault.Invalid("tax %s exceeds price %s", tax, price)
	}
	return tax, new(big.Int).Sub(price, tax), nil
}

// PurchaseListing settles a sale. For a native listing value must equal the
// price, for a fungible one value must be empty and the buyer must have
// approved the market for the price.
func (ex *Exchange) PurchaseListing(st State, caller common.Address, id uint64, value *big.Int) error {
	l, err := ex.activeListing(st, id)
	if err != nil {
		return err
	}
	m, err := ex.Market(st)
	if err != nil {
		return err
	}
	coll, err := ex.collection(m)
	if err != nil {
		return err
	}
	tax, proceeds, err := Split(l.Price, m.TaxRate)
	if err != nil {
		return err
	}

	if l.Currency.IsNative() {
		if value == nil || value.Cmp(l.Price) != 0 {
			return fault.Invalid("value %v does not match price %s", value, l.Price)
		}
		err = asset.Transfer(st, l.Currency, caller, ex.address, l.Price)
	} else {
		if value != nil && value.Sign() != 0 {
			return fault.Invalid("value %s sent for %s listing", value, l.Currency)
		}
		err = asset.TransferFrom(st, l.Currency, ex.address, caller, ex.address, l.Price)
	}
	if err != nil {
		return err
	}
	err = ex.payout(st, l.Currency, m.TaxRecipient, tax)
	if err != nil {
		return err
	}
	err = ex.payout(st, l.Currency, l.Seller, proceeds)
	if err != nil {
		return err
	}

	err = coll.TransferFrom(st, ex.address, ex.address, caller, id)
	if err != nil {
		return err
	}
	err = ex.removeListing(st, m, l)
	if err != nil {
		return err
	}
	return ex.emit(st, &event.Event{
		Kind:     event.KindPurchasedListing,
		TokenId:  id,
		From:     caller,
		To:       l.Seller,
		Amount:   l.Price,
		Currency: l.Currency.Address(),
	})
}

func (ex *Exchange) payout(st State, c asset.Currency, to common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	return asset.Transfer(st, c, ex.address, to, amount)
}
