package ledger

import (
	"errors"
	"fmt"

	"github.com/MixinNetwork/bnft/nft"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pelletier/go-toml"
)

const (
	DefaultStoreDir     = "~/.mixin/bnft/data"
	DefaultLoggerLevel  = 2
	DefaultName         = "Hectagon Tiger Tribe"
	DefaultSymbol       = "HTT"
	DefaultNativeSymbol = "BNB"
)

type Configuration struct {
	Logger   LoggerConfig   `toml:"logger"`
	Store    StoreConfig    `toml:"store"`
	Registry RegistryConfig `toml:"registry"`
	Market   MarketConfig   `toml:"market"`
	Native   NativeConfig   `toml:"native"`
	Assets   []AssetConfig  `toml:"asset"`
}

type LoggerConfig struct {
	Level int `toml:"level"`
}

type StoreConfig struct {
	Dir string `toml:"dir"`
}

type RegistryConfig struct {
	Address      string `toml:"address"`
	Owner        string `toml:"owner"`
	Name         string `toml:"name"`
	Symbol       string `toml:"symbol"`
	BaseURI      string `toml:"base-uri"`
	MaxSupply    uint64 `toml:"max-supply"`
	ReserveAsset string `toml:"reserve-asset"`
	RedeemableAt int64  `toml:"redeemable-at"`
}

type MarketConfig struct {
	Address      string   `toml:"address"`
	Owner        string   `toml:"owner"`
	Collection   string   `toml:"collection"`
	TaxRate      uint64   `toml:"tax-rate" default:"10"`
	TaxRecipient string   `toml:"tax-recipient"`
	Currencies   []string `toml:"currencies"`
}

// NativeConfig describes the chain native value. Its issuer may credit
// native balances, standing in for the chain itself.
type NativeConfig struct {
	Symbol string `toml:"symbol"`
	Issuer string `toml:"issuer"`
}

type AssetConfig struct {
	Address  string `toml:"address"`
	Symbol   string `toml:"symbol"`
	Decimals uint8  `toml:"decimals" default:"18"`
	Issuer   string `toml:"issuer"`
}

func Setup(path string) (*Configuration, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Configuration
	err = tree.Unmarshal(&conf)
	if err != nil {
		return nil, err
	}
	conf.applyDefaults()
	return &conf, conf.Validate()
}

func (c *Configuration) applyDefaults() {
	if c.Logger.Level == 0 {
		c.Logger.Level = DefaultLoggerLevel
	}
	if c.Store.Dir == "" {
		c.Store.Dir = DefaultStoreDir
	}

	if c.Registry.Name == "" {
		c.Registry.Name = DefaultName
	}
	if c.Registry.Symbol == "" {
		c.Registry.Symbol = DefaultSymbol
	}
	if c.Registry.MaxSupply == 0 {
		c.Registry.MaxSupply = nft.DefaultMaxSupply
	}

	if c.Market.Owner == "" {
		c.Market.Owner = c.Registry.Owner
	}
	if c.Market.TaxRecipient == "" {
		c.Market.TaxRecipient = c.Market.Owner
	}

	if c.Native.Symbol == "" {
		c.Native.Symbol = DefaultNativeSymbol
	}
	if c.Native.Issuer == "" {
		c.Native.Issuer = c.Registry.Owner
	}
}

// Validate checks that all required fields are set and values are valid.
func (c *Configuration) Validate() error {
	if c.Registry.Owner == "" {
		return errors.New("registry.owner is required")
	}
	checks := []struct {
		field string
		value string
	}{
		{"registry.address", c.Registry.Address},
		{"registry.owner", c.Registry.Owner},
		{"market.address", c.Market.Address},
		{"market.owner", c.Market.Owner},
		{"market.tax-recipient", c.Market.TaxRecipient},
		{"native.issuer", c.Native.Issuer},
	}
	for _, ck := range checks {
		if _, err := parseAddress(ck.field, ck.value); err != nil {
			return err
		}
	}
	if c.Registry.Address == c.Market.Address {
		return errors.New("market.address must differ from registry.address")
	}
	if c.Registry.ReserveAsset != "" {
		if _, err := parseAddress("registry.reserve-asset", c.Registry.ReserveAsset); err != nil {
			return err
		}
	}
	if c.Market.Collection != "" {
		if _, err := parseAddress("market.collection", c.Market.Collection); err != nil {
			return err
		}
	}
	for i, cur := range c.Market.Currencies {
		if _, err := parseAddress(fmt.Sprintf("market.currencies[%d]", i), cur); err != nil {
			return err
		}
	}

	seen := make(map[common.Address]bool)
	for i, a := range c.Assets {
		addr, err := parseAddress(fmt.Sprintf("asset[%d].address", i), a.Address)
		if err != nil {
			return err
		}
		if seen[addr] {
			return fmt.Errorf("asset[%d].address %s is duplicated", i, a.Address)
		}
		seen[addr] = true
		if a.Symbol == "" {
			return fmt.Errorf("asset[%d].symbol is required", i)
		}
		if a.Decimals > 36 {
			return fmt.Errorf("asset[%d].decimals must be <= 36, got %d", i, a.Decimals)
		}
		if _, err := parseAddress(fmt.Sprintf("asset[%d].issuer", i), a.Issuer); err != nil {
			return err
		}
	}
	return nil
}

func parseAddress(field, s string) (common.Address, error) {
	if s == "" {
		return common.Address{}, fmt.Errorf("%s is required", field)
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s %q is not a valid address", field, s)
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%s is the zero address", field)
	}
	return addr, nil
}
