package store

import (
	"encoding/binary"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/market"
	"github.com/ethereum/go-ethereum/common"
)

const (
	prefixMarketPayload   = "MARKET:PAYLOAD:"
	prefixMarketCurrency  = "MARKET:CURRENCY:"
	prefixListingPayload  = "MARKET:LISTING:PAYLOAD:"
	prefixListingPosition = "MARKET:LISTING:POSITION:"
)

var _ market.State = (*Tx)(nil)

type listingRecord struct {
	TokenId  uint64
	Seller   common.Address
	Price    string
	Currency common.Address
	Position uint64
}

func (tx *Tx) ReadMarket(addr common.Address) (*market.Market, error) {
	var m market.Market
	found, err := tx.readMsgpack(buildKey(prefixMarketPayload, addr[:]), &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (tx *Tx) WriteMarket(m *market.Market) error {
	return tx.writeMsgpack(buildKey(prefixMarketPayload, m.Address[:]), m)
}

func (tx *Tx) ReadCurrency(mkt, token common.Address) (bool, error) {
	return tx.has(buildKey(prefixMarketCurrency, mkt[:], token[:]))
}

func (tx *Tx) WriteCurrency(mkt, token common.Address, accepted bool) error {
	key := buildKey(prefixMarketCurrency, mkt[:], token[:])
	if !accepted {
		return tx.delete(key)
	}
	return tx.set(key, []byte{1})
}

func (tx *Tx) ReadListing(mkt common.Address, id uint64) (*market.Listing, error) {
	var r listingRecord
	found, err := tx.readMsgpack(buildKey(prefixListingPayload, mkt[:], uint64ToBytes(id)), &r)
	if err != nil || !found {
		return nil, err
	}
	price, err := amountFromString(r.Price)
	if err != nil {
		return nil, err
	}
	return &market.Listing{
		TokenId:  r.TokenId,
		Seller:   r.Seller,
		Price:    price,
		Currency: asset.FromAddress(r.Currency),
		Position: r.Position,
	}, nil
}

func (tx *Tx) WriteListing(mkt common.Address, l *market.Listing) error {
	r := &listingRecord{
		TokenId:  l.TokenId,
		Seller:   l.Seller,
		Price:    amountToString(l.Price),
		Currency: l.Currency.Address(),
		Position: l.Position,
	}
	return tx.writeMsgpack(buildKey(prefixListingPayload, mkt[:], uint64ToBytes(l.TokenId)), r)
}

func (tx *Tx) DeleteListing(mkt common.Address, id uint64) error {
	return tx.delete(buildKey(prefixListingPayload, mkt[:], uint64ToBytes(id)))
}

func (tx *Tx) ReadListingAt(mkt common.Address, pos uint64) (uint64, error) {
	val, err := tx.get(buildKey(prefixListingPosition, mkt[:], uint64ToBytes(pos)))
	if err != nil {
		return 0, err
	}
	if len(val) != 8 {
		panic(pos)
	}
	return binary.BigEndian.Uint64(val), nil
}

func (tx *Tx) WriteListingAt(mkt common.Address, pos, id uint64) error {
	return tx.set(buildKey(prefixListingPosition, mkt[:], uint64ToBytes(pos)), uint64ToBytes(id))
}

func (tx *Tx) DeleteListingAt(mkt common.Address, pos uint64) error {
	return tx.delete(buildKey(prefixListingPosition, mkt[:], uint64ToBytes(pos)))
}
