package market

import (
	"math/big"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/bnft/fault"
	"github.com/ethereum/go-ethereum/common"
)

// AddListing takes custody of the token, the caller must own it and have
// approved the market beforehand.
func (ex *Exchange) AddListing(st State, caller common.Address, id uint64, price *big.Int, c asset.Currency) error {
	m, err := ex.Market(st)
	if err != nil {
		return err
	}
	coll, err := ex.collection(m)
	if err != nil {
		return err
	}
	err = ex.checkOffer(st, price, c)
	if err != nil {
		return err
	}
	owner, err := coll.OwnerOf(st, id)
	if err != nil {
		return err
	}
	if owner != caller {
		return fault.Unauthorized("caller %s is not the owner of token %d", caller.Hex(), id)
	}
	approved, err := coll.IsApprovedOrOwner(st, ex.address, id)
	if err != nil {
		return err
	}
	if !approved {
		return fault.Unauthorized("market %s not approved for token %d", ex.address.Hex(), id)
	}
	old, err := st.ReadListing(ex.address, id)
	if err != nil {
		return err
	}
	if old != nil {
		return fault.Newf(fault.State, "token %d listed already", id)
	}

	err = coll.TransferFrom(st, ex.address, caller, ex.address, id)
	if err != nil {
		return err
	}
	l := &Listing{
		TokenId:  id,
		Seller:   caller,
		Price:    new(big.Int).Set(price),
		Currency: c,
		Position: m.Listings,
	}
	err = st.WriteListing(ex.address, l)
	if err != nil {
		return err
	}
	err = st.WriteListingAt(ex.address, l.Position, id)
	if err != nil {
		return err
	}
	m.Listings += 1
	err = st.WriteMarket(m)
	if err != nil {
		return err
	}
	return ex.emit(st, &event.Event{
		Kind:     event.KindNewListing,
		TokenId:  id,
		From:     caller,
		Amount:   l.Price,
		Currency: c.Address(),
	})
}

// ChangeListingPrice checks the new currency against the allow-list just
// like AddListing does.
func (ex *Exchange) ChangeListingPrice(st State, caller common.Address, id uint64, price *big.Int, c asset.Currency) error {
	l, err := ex.sellerListing(st, caller, id)
	if err != nil {
		return err
	}
	err = ex.checkOffer(st, price, c)
	if err != nil {
		return err
	}
	l.Price = new(big.Int).Set(price)
	l.Currency = c
	err = st.WriteListing(ex.address, l)
	if err != nil {
		return err
	}
	return ex.emit(st, &event.Event{
		Kind:     event.KindListingPriceChange,
		TokenId:  id,
		From:     caller,
		Amount:   l.Price,
		Currency: c.Address(),
	})
}

func (ex *Exchange) CancelListing(st State, caller common.Address, id uint64) error {
	l, err := ex.sellerListing(st, caller, id)
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
	err = coll.TransferFrom(st, ex.address, ex.address, l.Seller, id)
	if err != nil {
		return err
	}
	err = ex.removeListing(st, m, l)
	if err != nil {
		return err
	}
	return ex.emit(st, &event.Event{Kind: event.KindCancelledListing, TokenId: id, From: l.Seller})
}

// Listing returns nil when the token is not listed.
func (ex *Exchange) Listing(st State, id uint64) (*Listing, error) {
	return st.ReadListing(ex.address, id)
}

// ListingSlice returns up to count listings from offset in the set order.
// Removals move the last listing into the freed slot, so the order is not
// stable across cancellations and purchases.
func (ex *Exchange) ListingSlice(st State, offset, count int) ([]*Listing, error) {
	if offset < 0 || count < 0 {
		return nil, fault.Invalid("invalid slice %d %d", offset, count)
	}
	m, err := ex.Market(st)
	if err != nil {
		return nil, err
	}
	start := uint64(offset)
	if start >= m.Listings {
		return []*Listing{}, nil
	}
	end := start + uint64(count)
	if end > m.Listings {
		end = m.Listings
	}
	listings := make([]*Listing, 0, end-start)
	for pos := start; pos < end; pos++ {
		id, err := st.ReadListingAt(ex.address, pos)
		if err != nil {
			return nil, err
		}
		l, err := st.ReadListing(ex.address, id)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, fault.Newf(fault.Internal, "listing set slot %d points to missing token %d", pos, id)
		}
		listings = append(listings, l)
	}
	return listings, nil
}

func (ex *Exchange) checkOffer(st State, price *big.Int, c asset.Currency) error {
	if price == nil || price.Sign() <= 0 {
		return fault.Invalid("invalid listing price %v", price)
	}
	accepted, err := ex.IsAccepted(st, c)
	if err != nil {
		return err
	}
	if !accepted {
		return fault.Invalid("currency %s not accepted", c)
	}
	return nil
}

func (ex *Exchange) sellerListing(st State, caller common.Address, id uint64) (*Listing, error) {
	l, err := ex.activeListing(st, id)
	if err != nil {
		return nil, err
	}
	if l.Seller != caller {
		return nil, fault.Unauthorized("caller %s is not the seller of token %d", caller.Hex(), id)
	}
	return l, nil
}

func (ex *Exchange) activeListing(st State, id uint64) (*Listing, error) {
	l, err := st.ReadListing(ex.address, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fault.Newf(fault.State, "no active listing for token %d", id)
	}
	return l, nil
}

// removeListing swaps the last slot of the set into the removed one.
func (ex *Exchange) removeListing(st State, m *Market, l *Listing) error {
	last := m.Listings - 1
	if l.Position != last {
		id, err := st.ReadListingAt(ex.address, last)
		if err != nil {
			return err
		}
		moved, err := st.ReadListing(ex.address, id)
		if err != nil {
			return err
		}
		if moved == nil {
			return fault.Newf(fault.Internal, "listing set slot %d points to missing token %d", last, id)
		}
		moved.Position = l.Position
		err = st.WriteListing(ex.address, moved)
		if err != nil {
			return err
		}
		err = st.WriteListingAt(ex.address, l.Position, id)
		if err != nil {
			return err
		}
	}
	err := st.DeleteListingAt(ex.address, last)
	if err != nil {
		return err
	}
	err = st.DeleteListing(ex.address, l.TokenId)
	if err != nil {
		return err
	}
	m.Listings -= 1
	return st.WriteMarket(m)
}
