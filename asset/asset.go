package asset

import (
	"math/big"

	"github.com/MixinNetwork/bnft/fault"
	"github.com/ethereum/go-ethereum/common"
)

const (
	KindFungible   = "fungible"
	KindCollection = "collection"
	KindMarket     = "market"
)

type Info struct {
	Address  common.Address
	Symbol   string
	Decimals uint8
	Issuer   common.Address
}

// State is the slice of ledger storage fungible balances live in. Reads of
// missing balances and allowances yield zero, never nil.
type State interface {
	ReadAsset(addr common.Address) (*Info, error)
	WriteAsset(info *Info) error

	ReadBalance(asset, owner common.Address) (*big.Int, error)
	WriteBalance(asset, owner common.Address, amount *big.Int) error
	ReadAllowance(asset, owner, spender common.Address) (*big.Int, error)
	WriteAllowance(asset, owner, spender common.Address, amount *big.Int) error

	ReadContract(addr common.Address) (string, error)
	WriteContract(addr common.Address, kind string) error
}

// RegisterContract claims addr for a contract of the given kind.
func RegisterContract(st State, addr common.Address, kind string) error {
	if addr == (common.Address{}) || addr == NativeAddress {
		return fault.Invalid("invalid contract address %s", addr.Hex())
	}
	old, err := st.ReadContract(addr)
	if err != nil {
		return err
	}
	if old != "" {
		return fault.Newf(fault.State, "contract %s already registered as %s", addr.Hex(), old)
	}
	return st.WriteContract(addr, kind)
}

func Register(st State, info *Info) error {
	if info.Issuer == (common.Address{}) {
		return fault.Invalid("asset %s without issuer", info.Symbol)
	}
	err := RegisterContract(st, info.Address, KindFungible)
	if err != nil {
		return err
	}
	return st.WriteAsset(info)
}

func RegisterNative(st State, symbol string, issuer common.Address) error {
	old, err := st.ReadAsset(NativeAddress)
	if err != nil || old != nil {
		return err
	}
	return st.WriteAsset(&Info{
		Address:  NativeAddress,
		Symbol:   symbol,
		Decimals: CanonicalDecimals,
		Issuer:   issuer,
	})
}

func Lookup(st State, c Currency) (*Info, error) {
	if c.IsZero() {
		return nil, fault.Invalid("zero currency")
	}
	info, err := st.ReadAsset(c.Address())
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fault.Newf(fault.State, "unknown asset %s", c)
	}
	return info, nil
}

func Decimals(st State, c Currency) (uint8, error) {
	info, err := Lookup(st, c)
	if err != nil {
		return 0, err
	}
	return info.Decimals, nil
}

func BalanceOf(st State, c Currency, owner common.Address) (*big.Int, error) {
	_, err := Lookup(st, c)
	if err != nil {
		return nil, err
	}
	return st.ReadBalance(c.Address(), owner)
}

func Allowance(st State, c Currency, owner, spender common.Address) (*big.Int, error) {
	return st.ReadAllowance(c.Address(), owner, spender)
}

// Issue creates new units out of nothing. Only the issuer recorded at
// registration may do it.
func Issue(st State, issuer common.Address, c Currency, to common.Address, amount *big.Int) error {
	info, err := Lookup(st, c)
	if err != nil {
		return err
	}
	if info.Issuer != issuer {
		return fault.Unauthorized("%s is not the issuer of %s", issuer.Hex(), info.Symbol)
	}
	if err := checkAmount(amount); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return fault.Invalid("issue to the zero address")
	}
	bal, err := st.ReadBalance(c.Address(), to)
	if err != nil {
		return err
	}
	return st.WriteBalance(c.Address(), to, new(big.Int).Add(bal, amount))
}

func Transfer(st State, c Currency, from, to common.Address, amount *big.Int) error {
	_, err := Lookup(st, c)
	if err != nil {
		return err
	}
	if err := checkAmount(amount); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return fault.Invalid("transfer to the zero address")
	}
	key := c.Address()
	fb, err := st.ReadBalance(key, from)
	if err != nil {
		return err
	}
	if fb.Cmp(amount) < 0 {
		return fault.Newf(fault.Funds, "insufficient %s balance %s < %s", c, fb, amount)
	}
	err = st.WriteBalance(key, from, new(big.Int).Sub(fb, amount))
	if err != nil {
		return err
	}
	tb, err := st.ReadBalance(key, to)
	if err != nil {
		return err
	}
	return st.WriteBalance(key, to, new(big.Int).Add(tb, amount))
}

func Approve(st State, c Currency, owner, spender common.Address, amount *big.Int) error {
	if c.IsNative() {
		return fault.Invalid("native value can not be approved")
	}
	_, err := Lookup(st, c)
	if err != nil {
		return err
	}
	if err := checkAmount(amount); err != nil {
		return err
	}
	if spender == (common.Address{}) {
		return fault.Invalid("approve to the zero address")
	}
	return st.WriteAllowance(c.Address(), owner, spender, amount)
}

// TransferFrom moves funds on behalf of from, consuming the allowance it
// granted to spender.
func TransferFrom(st State, c Currency, spender, from, to common.Address, amount *big.Int) error {
	if c.IsNative() {
		return fault.Invalid("native value can not be pulled")
	}
	if err := checkAmount(amount); err != nil {
		return err
	}
	key := c.Address()
	allowed, err := st.ReadAllowance(key, from, spender)
	if err != nil {
		return err
	}
	if allowed.Cmp(amount) < 0 {
		return fault.Newf(fault.Funds, "insufficient %s allowance %s < %s", c, allowed, amount)
	}
	err = st.WriteAllowance(key, from, spender, new(big.Int).Sub(allowed, amount))
	if err != nil {
		return err
	}
	return Transfer(st, c, from, to, amount)
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fault.Invalid("invalid amount %v", amount)
	}
	return nil
}
