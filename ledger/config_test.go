package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MixinNetwork/bnft/nft"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[logger]
level = 3

[registry]
address = "0x00000000000000000000000000000000000000a1"
owner = "0x0000000000000000000000000000000000000101"
base-uri = "ipfs://tigers/"
reserve-asset = "0x00000000000000000000000000000000000000d4"

[market]
address = "0x00000000000000000000000000000000000000b2"
collection = "0x00000000000000000000000000000000000000a1"
currencies = ["0x00000000000000000000000000000000000000c3"]

[[asset]]
address = "0x00000000000000000000000000000000000000c3"
symbol = "BUSD"
decimals = 18
issuer = "0x0000000000000000000000000000000000000101"

[[asset]]
address = "0x00000000000000000000000000000000000000d4"
symbol = "HECTA"
decimals = 9
issuer = "0x0000000000000000000000000000000000000101"
`

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestSetup(t *testing.T) {
	require := require.New(t)

	conf, err := Setup(writeConfig(t, testConfig))
	require.NoError(err)

	require.Equal(3, conf.Logger.Level)
	require.Equal(DefaultStoreDir, conf.Store.Dir)
	require.Equal(DefaultName, conf.Registry.Name)
	require.Equal(DefaultSymbol, conf.Registry.Symbol)
	require.Equal(uint64(nft.DefaultMaxSupply), conf.Registry.MaxSupply)
	require.Equal("ipfs://tigers/", conf.Registry.BaseURI)

	require.Equal(conf.Registry.Owner, conf.Market.Owner)
	require.Equal(conf.Registry.Owner, conf.Market.TaxRecipient)
	require.Equal(uint64(10), conf.Market.TaxRate)
	require.Len(conf.Market.Currencies, 1)

	require.Equal(DefaultNativeSymbol, conf.Native.Symbol)
	require.Equal(conf.Registry.Owner, conf.Native.Issuer)

	require.Len(conf.Assets, 2)
	require.Equal("HECTA", conf.Assets[1].Symbol)
	require.Equal(uint8(9), conf.Assets[1].Decimals)

	_, err = Setup(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(err)

	_, err = Setup(writeConfig(t, "[registry\nowner ="))
	require.Error(err)
}

func validConfig() *Configuration {
	conf := &Configuration{
		Registry: RegistryConfig{
			Address: "0x00000000000000000000000000000000000000a1",
			Owner:   "0x0000000000000000000000000000000000000101",
		},
		Market: MarketConfig{
			Address: "0x00000000000000000000000000000000000000b2",
			TaxRate: 10,
		},
	}
	conf.applyDefaults()
	return conf
}

func TestValidate(t *testing.T) {
	require := require.New(t)

	require.NoError(validConfig().Validate())

	conf := validConfig()
	conf.Registry.Owner = ""
	require.EqualError(conf.Validate(), "registry.owner is required")

	conf = validConfig()
	conf.Registry.Address = "0xnothex"
	require.ErrorContains(conf.Validate(), "registry.address")

	conf = validConfig()
	conf.Market.Address = ""
	require.EqualError(conf.Validate(), "market.address is required")

	conf = validConfig()
	conf.Market.Address = conf.Registry.Address
	require.ErrorContains(conf.Validate(), "must differ")

	conf = validConfig()
	conf.Market.TaxRecipient = "0x0000000000000000000000000000000000000000"
	require.ErrorContains(conf.Validate(), "zero address")

	conf = validConfig()
	conf.Market.Currencies = []string{"busd"}
	require.ErrorContains(conf.Validate(), "market.currencies[0]")

	conf = validConfig()
	conf.Assets = []AssetConfig{
		{Address: "0x00000000000000000000000000000000000000c3", Symbol: "BUSD", Decimals: 18, Issuer: conf.Registry.Owner},
		{Address: "0x00000000000000000000000000000000000000C3", Symbol: "COPY", Decimals: 18, Issuer: conf.Registry.Owner},
	}
	require.ErrorContains(conf.Validate(), "duplicated")

	conf = validConfig()
	conf.Assets = []AssetConfig{{Address: "0x00000000000000000000000000000000000000c3", Decimals: 18, Issuer: conf.Registry.Owner}}
	require.EqualError(conf.Validate(), "asset[0].symbol is required")

	conf = validConfig()
	conf.Assets = []AssetConfig{{Address: "0x00000000000000000000000000000000000000c3", Symbol: "BUSD", Decimals: 40, Issuer: conf.Registry.Owner}}
	require.ErrorContains(conf.Validate(), "decimals")
}
