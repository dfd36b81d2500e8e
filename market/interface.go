package market

import (
	"math/big"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/nft"
	"github.com/ethereum/go-ethereum/common"
)

type State interface {
	nft.State

	ReadMarket(addr common.Address) (*Market, error)
	WriteMarket(m *Market) error

	ReadCurrency(market, token common.Address) (bool, error)
	WriteCurrency(market, token common.Address, accepted bool) error

	ReadListing(market common.Address, id uint64) (*Listing, error)
	WriteListing(market common.Address, l *Listing) error
	DeleteListing(market common.Address, id uint64) error

	ReadListingAt(market common.Address, pos uint64) (uint64, error)
	WriteListingAt(market common.Address, pos, id uint64) error
	DeleteListingAt(market common.Address, pos uint64) error
}

// Collection is what the market needs from a non-fungible token contract.
type Collection interface {
	Address() common.Address
	OwnerOf(st nft.State, id uint64) (common.Address, error)
	IsApprovedOrOwner(st nft.State, spender common.Address, id uint64) (bool, error)
	TransferFrom(st nft.State, caller, from, to common.Address, id uint64) error
}

// Market is the marketplace global state. Listings is the size of the
// enumerable listing set.
type Market struct {
	Address      common.Address
	Owner        common.Address
	Collection   common.Address
	TaxRate      uint64
	TaxRecipient common.Address
	Listings     uint64
}

type Listing struct {
	TokenId  uint64
	Seller   common.Address
	Price    *big.Int
	Currency asset.Currency
	Position uint64
}
