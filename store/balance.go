package store

import (
	"math/big"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/ethereum/go-ethereum/common"
)

const (
	prefixAssetInfo      = "ASSET:INFO:"
	prefixAssetBalance   = "ASSET:BALANCE:"
	prefixAssetAllowance = "ASSET:ALLOWANCE:"
	prefixContractKind   = "CONTRACT:KIND:"
)

func (tx *Tx) ReadAsset(addr common.Address) (*asset.Info, error) {
	var info asset.Info
	found, err := tx.readMsgpack(buildKey(prefixAssetInfo, addr[:]), &info)
	if err != nil || !found {
		return nil, err
	}
	return &info, nil
}

func (tx *Tx) WriteAsset(info *asset.Info) error {
	return tx.writeMsgpack(buildKey(prefixAssetInfo, info.Address[:]), info)
}

func (tx *Tx) ReadBalance(token, owner common.Address) (*big.Int, error) {
	return tx.readAmount(buildKey(prefixAssetBalance, token[:], owner[:]))
}

func (tx *Tx) WriteBalance(token, owner common.Address, amount *big.Int) error {
	return tx.writeAmount(buildKey(prefixAssetBalance, token[:], owner[:]), amount)
}

func (tx *Tx) ReadAllowance(token, owner, spender common.Address) (*big.Int, error) {
	return tx.readAmount(buildKey(prefixAssetAllowance, token[:], owner[:], spender[:]))
}

func (tx *Tx) WriteAllowance(token, owner, spender common.Address, amount *big.Int) error {
	return tx.writeAmount(buildKey(prefixAssetAllowance, token[:], owner[:], spender[:]), amount)
}

func (tx *Tx) ReadContract(addr common.Address) (string, error) {
	val, err := tx.get(buildKey(prefixContractKind, addr[:]))
	return string(val), err
}

func (tx *Tx) WriteContract(addr common.Address, kind string) error {
	return tx.set(buildKey(prefixContractKind, addr[:]), []byte(kind))
}

// readAmount yields zero for a missing key, balances are never stored as
// zero.
func (tx *Tx) readAmount(key []byte) (*big.Int, error) {
	val, err := tx.get(key)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(val), nil
}

func (tx *Tx) writeAmount(key []byte, amount *big.Int) error {
	if amount.Sign() == 0 {
		return tx.delete(key)
	}
	return tx.set(key, amount.Bytes())
}
