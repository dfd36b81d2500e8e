package nft

import (
	"math/big"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/event"
	"github.com/ethereum/go-ethereum/common"
)

type State interface {
	asset.State
	event.Log

	ReadCollection(addr common.Address) (*Collection, error)
	WriteCollection(c *Collection) error

	ReadToken(id uint64) (*Token, error)
	WriteToken(t *Token) error
	DeleteToken(id uint64) error

	ReadOwnerBalance(owner common.Address) (uint64, error)
	WriteOwnerToken(owner common.Address, id uint64) error
	DeleteOwnerToken(owner common.Address, id uint64) error
	// ListOwnerTokens walks the owner's tokens in ascending id order.
	ListOwnerTokens(owner common.Address, offset, limit int) ([]uint64, error)

	ReadOperator(owner, operator common.Address) (bool, error)
	WriteOperator(owner, operator common.Address, approved bool) error
}

// Collection is the registry global state.
type Collection struct {
	Address      common.Address
	Name         string
	Symbol       string
	BaseURI      string
	Owner        common.Address
	Counter      uint64
	Supply       uint64
	MaxSupply    uint64
	ReserveAsset common.Address
	RedeemableAt int64
	Paused       bool
}

type Token struct {
	Id           uint64
	Owner        common.Address
	URI          string
	BackedAmount *big.Int
	Approved     common.Address
}
