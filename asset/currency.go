package asset

import (
	"github.com/ethereum/go-ethereum/common"
)

// NativeAddress is the wire form of the native currency, kept for
// compatibility with indexers that only see addresses.
var NativeAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// Currency is either the chain native value or a registered fungible asset.
type Currency struct {
	native bool
	token  common.Address
}

func Native() Currency {
	return Currency{native: true}
}

func Fungible(token common.Address) Currency {
	if token == NativeAddress {
		return Native()
	}
	return Currency{token: token}
}

// FromAddress decodes the wire form, mapping the sentinel to Native.
func FromAddress(addr common.Address) Currency {
	return Fungible(addr)
}

func (c Currency) IsNative() bool {
	return c.native
}

func (c Currency) IsZero() bool {
	return !c.native && c.token == (common.Address{})
}

// Address returns the wire form, the sentinel for Native.
func (c Currency) Address() common.Address {
	if c.native {
		return NativeAddress
	}
	return c.token
}

func (c Currency) String() string {
	if c.native {
		return "native"
	}
	return c.token.Hex()
}
