package market

import (
	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/bnft/fault"
	"github.com/ethereum/go-ethereum/common"
)

const (
	TaxDenominator = 1000
	DefaultTaxRate = 10
)

type Exchange struct {
	address  common.Address
	registry Collection
}

func NewExchange(address common.Address, registry Collection) *Exchange {
	return &Exchange{address: address, registry: registry}
}

func (ex *Exchange) Address() common.Address {
	return ex.address
}

// Genesis writes the initial market and its accepted currencies unless a
// market already exists at this address.
func (ex *Exchange) Genesis(st State, m *Market, currencies []common.Address) error {
	old, err := st.ReadMarket(ex.address)
	if err != nil || old != nil {
		return err
	}
	if m.Owner == (common.Address{}) {
		return fault.Invalid("market owner is the zero address")
	}
	err = asset.RegisterContract(st, ex.address, asset.KindMarket)
	if err != nil {
		return err
	}
	m.Address = ex.address
	m.Listings = 0
	err = st.WriteMarket(m)
	if err != nil {
		return err
	}
	for _, c := range currencies {
		err = ex.enable(st, asset.FromAddress(c))
		if err != nil {
			return err
		}
	}
	if m.Collection != (common.Address{}) {
		return ex.checkCollection(st, m.Collection)
	}
	return nil
}

func (ex *Exchange) Market(st State) (*Market, error) {
	m, err := st.ReadMarket(ex.address)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fault.Newf(fault.Internal, "market %s not initialized", ex.address.Hex())
	}
	return m, nil
}

func (ex *Exchange) ownedMarket(st State, caller common.Address) (*Market, error) {
	m, err := ex.Market(st)
	if err != nil {
		return nil, err
	}
	if m.Owner != caller {
		return nil, fault.Unauthorized("caller %s is not the market owner", caller.Hex())
	}
	return m, nil
}

func (ex *Exchange) TransferOwnership(st State, caller, owner common.Address) error {
	m, err := ex.ownedMarket(st, caller)
	if err != nil {
		return err
	}
	if owner == (common.Address{}) {
		return fault.Invalid("new owner is the zero address")
	}
	m.Owner = owner
	err = st.WriteMarket(m)
	if err != nil {
		return err
	}
	return ex.emit(st, &event.Event{Kind: event.KindOwnershipTransferred, From: caller, To: owner})
}

func (ex *Exchange) EnableCurrency(st State, caller, token common.Address) error {
	_, err := ex.ownedMarket(st, caller)
	if err != nil {
		return err
	}
	return ex.enable(st, asset.FromAddress(token))
}

func (ex *Exchange) enable(st State, c asset.Currency) error {
	if c.IsNative() {
		return nil
	}
	kind, err := st.ReadContract(c.Address())
	if err != nil {
		return err
	}
	if kind != asset.KindFungible {
		return fault.Invalid("currency %s is not a fungible asset", c)
	}
	return st.WriteCurrency(ex.address, c.Address(), true)
}

// DisableCurrency leaves existing listings in that currency purchasable.
func (ex *Exchange) DisableCurrency(st State, caller, token common.Address) error {
	_, err := ex.ownedMarket(st, caller)
	if err != nil {
		return err
	}
	c := asset.FromAddress(token)
	if c.IsNative() {
		return fault.Invalid("native currency can not be disabled")
	}
	return st.WriteCurrency(ex.address, c.Address(), false)
}

func (ex *Exchange) IsAccepted(st State, c asset.Currency) (bool, error) {
	if c.IsNative() {
		return true, nil
	}
	if c.IsZero() {
		return false, nil
	}
	return st.ReadCurrency(ex.address, c.Address())
}

// SetCollection binds the market to its token contract, once.
func (ex *Exchange) SetCollection(st State, caller, collection common.Address) error {
	m, err := ex.ownedMarket(st, caller)
	if err != nil {
		return err
	}
	if m.Collection != (common.Address{}) {
		return fault.Newf(fault.State, "nft contract already set to %s", m.Collection.Hex())
	}
	err = ex.checkCollection(st, collection)
	if err != nil {
		return err
	}
	m.Collection = collection
	return st.WriteMarket(m)
}

func (ex *Exchange) checkCollection(st State, collection common.Address) error {
	kind, err := st.ReadContract(collection)
	if err != nil {
		return err
	}
	if kind != asset.KindCollection {
		return fault.Invalid("%s is not a non-fungible token contract", collection.Hex())
	}
	if collection != ex.registry.Address() {
		return fault.Invalid("collection %s is not served by market %s", collection.Hex(), ex.address.Hex())
	}
	return nil
}

func (ex *Exchange) collection(m *Market) (Collection, error) {
	if m.Collection == (common.Address{}) {
		return nil, fault.New(fault.State, "nft contract not set")
	}
	return ex.registry, nil
}

// SetTax takes the rate in parts of TaxDenominator. No upper bound, a rate
// above the denominator makes every purchase fail.
func (ex *Exchange) SetTax(st State, caller common.Address, rate uint64) error {
	m, err := ex.ownedMarket(st, caller)
	if err != nil {
		return err
	}
	m.TaxRate = rate
	return st.WriteMarket(m)
}

func (ex *Exchange) SetTaxRecipient(st State, caller, recipient common.Address) error {
	m, err := ex.ownedMarket(st, caller)
	if err != nil {
		return err
	}
	if recipient == (common.Address{}) {
		return fault.Invalid("tax recipient is the zero address")
	}
	m.TaxRecipient = recipient
	return st.WriteMarket(m)
}

func (ex *Exchange) emit(st State, ev *event.Event) error {
	ev.Contract = ex.address
	return st.WriteEvent(ev)
}
