package market_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/bnft/fault"
	"github.com/MixinNetwork/bnft/market"
	"github.com/MixinNetwork/bnft/nft"
	"github.com/MixinNetwork/bnft/store"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	registryAddr = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	marketAddr   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	busd         = common.HexToAddress("0x00000000000000000000000000000000000000c3")
	hecta        = common.HexToAddress("0x00000000000000000000000000000000000000d4")
	admin        = common.HexToAddress("0x0000000000000000000000000000000000000101")
	treasury     = common.HexToAddress("0x0000000000000000000000000000000000000707")
	alice        = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob          = common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	native = asset.NativeAddress
	oneBNB = big.NewInt(1000000000000000000)
)

type fixture struct {
	bs  *store.BadgerStore
	reg *nft.Registry
	ex  *market.Exchange
}

// setup mints tokens 1 to 3 to alice and opens a market taxing 1% to the
// treasury, accepting the native value and BUSD.
func setup(t *testing.T, bind bool) *fixture {
	bs, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { bs.Close() })

	reg := nft.NewRegistry(registryAddr)
	f := &fixture{bs: bs, reg: reg, ex: market.NewExchange(marketAddr, reg)}
	err = f.update(func(tx *store.Tx) error {
		err := asset.RegisterNative(tx, "BNB", admin)
		if err != nil {
			return err
		}
		for _, a := range []*asset.Info{
			{Address: busd, Symbol: "BUSD", Decimals: 18, Issuer: admin},
			{Address: hecta, Symbol: "HECTA", Decimals: 9, Issuer: admin},
		} {
			err = asset.Register(tx, a)
			if err != nil {
				return err
			}
		}
		err = reg.Genesis(tx, &nft.Collection{Owner: admin})
		if err != nil {
			return err
		}
		_, err = reg.MintBatch(tx, admin, alice, []string{"1", "2", "3"}, []*big.Int{oneBNB, oneBNB, oneBNB}, 1)
		if err != nil {
			return err
		}
		m := &market.Market{Owner: admin, TaxRate: market.DefaultTaxRate, TaxRecipient: treasury}
		if bind {
			m.Collection = registryAddr
		}
		return f.ex.Genesis(tx, m, []common.Address{busd})
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) update(fn func(tx *store.Tx) error) error {
	_, err := f.bs.Update(time.Now(), fn)
	return err
}

func (f *fixture) list(t *testing.T, id uint64, price *big.Int, currency common.Address) {
	err := f.update(func(tx *store.Tx) error {
		err := f.reg.Approve(tx, alice, marketAddr, id)
		if err != nil {
			return err
		}
		return f.ex.AddListing(tx, alice, id, price, asset.FromAddress(currency))
	})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, token, owner common.Address) *big.Int {
	var b *big.Int
	err := f.bs.View(func(tx *store.Tx) error {
		var err error
		b, err = asset.BalanceOf(tx, asset.FromAddress(token), owner)
		return err
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) ownerOf(t *testing.T, id uint64) common.Address {
	var owner common.Address
	err := f.bs.View(func(tx *store.Tx) error {
		var err error
		owner, err = f.reg.OwnerOf(tx, id)
		return err
	})
	require.NoError(t, err)
	return owner
}

func (f *fixture) listedIds(t *testing.T) []uint64 {
	var ids []uint64
	err := f.bs.View(func(tx *store.Tx) error {
		listings, err := f.ex.ListingSlice(tx, 0, 100)
		if err != nil {
			return err
		}
		for i, l := range listings {
			require.Equal(t, uint64(i), l.Position)
			ids = append(ids, l.TokenId)
		}
		return nil
	})
	require.NoError(t, err)
	return ids
}

func (f *fixture) lastEvent(t *testing.T) *event.Event {
	var last *event.Event
	err := f.bs.View(func(tx *store.Tx) error {
		evs, err := tx.ListEvents(0, 1000)
		if err != nil {
			return err
		}
		last = evs[len(evs)-1]
		return nil
	})
	require.NoError(t, err)
	return last
}

func TestSplit(t *testing.T) {
	require := require.New(t)

	tax, proceeds, err := market.Split(big.NewInt(1000), 10)
	require.NoError(err)
	require.Equal(int64(10), tax.Int64())
	require.Equal(int64(990), proceeds.Int64())

	tax, proceeds, err = market.Split(big.NewInt(99), 10)
	require.NoError(err)
	require.Equal(int64(0), tax.Int64())
	require.Equal(int64(99), proceeds.Int64())

	tax, proceeds, err = market.Split(big.NewInt(7), 1000)
	require.NoError(err)
	require.Equal(int64(7), tax.Int64())
	require.Equal(int64(0), proceeds.Int64())

	_, _, err = market.Split(big.NewInt(1000), 1001)
	require.True(fault.Is(err, fault.Precondition))
}

func TestAddListing(t *testing.T) {
	require := require.New(t)
	f := setup(t, true)

	err := f.update(func(tx *store.Tx) error {
		return f.ex.AddListing(tx, alice, 1, oneBNB, asset.Native())
	})
	require.True(fault.Is(err, fault.Authorization))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.AddListing(tx, bob, 1, oneBNB, asset.Native())
	})
	require.True(fault.Is(err, fault.Authorization))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.AddListing(tx, alice, 1, big.NewInt(0), asset.Native())
	})
	require.True(fault.Is(err, fault.Precondition))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.AddListing(tx, alice, 1, oneBNB, asset.Fungible(hecta))
	})
	require.True(fault.Is(err, fault.Precondition))

	f.list(t, 1, oneBNB, native)
	require.Equal(marketAddr, f.ownerOf(t, 1))

	err = f.bs.View(func(tx *store.Tx) error {
		l, err := f.ex.Listing(tx, 1)
		require.NoError(err)
		require.Equal(alice, l.Seller)
		require.Equal(oneBNB.String(), l.Price.String())
		require.True(l.Currency.IsNative())

		none, err := f.ex.Listing(tx, 2)
		require.NoError(err)
		require.Nil(none)

		m, err := f.ex.Market(tx)
		require.NoError(err)
		require.Equal(uint64(1), m.Listings)
		return nil
	})
	require.NoError(err)

	ev := f.lastEvent(t)
	require.Equal(event.KindNewListing, ev.Kind)
	require.Equal(marketAddr, ev.Contract)
	require.Equal(native, ev.Currency)

	err = f.update(func(tx *store.Tx) error {
		return f.ex.AddListing(tx, alice, 1, oneBNB, asset.Native())
	})
	require.True(fault.Is(err, fault.Authorization))
}

func TestPurchaseNative(t *testing.T) {
	require := require.New(t)
	f := setup(t, true)
	f.list(t, 1, oneBNB, native)

	err := f.update(func(tx *store.Tx) error {
		return asset.Issue(tx, admin, asset.Native(), bob, big.NewInt(0).Mul(oneBNB, big.NewInt(2)))
	})
	require.NoError(err)

	err = f.update(func(tx *store.Tx) error {
		return f.ex.PurchaseListing(tx, bob, 1, big.NewInt(1))
	})
	require.True(fault.Is(err, fault.Precondition))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.PurchaseListing(tx, bob, 1, nil)
	})
	require.True(fault.Is(err, fault.Precondition))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.PurchaseListing(tx, bob, 1, oneBNB)
	})
	require.NoError(err)

	require.Equal(bob, f.ownerOf(t, 1))
	require.Equal("10000000000000000", f.balance(t, native, treasury).String())
	require.Equal("990000000000000000", f.balance(t, native, alice).String())
	require.Equal("1000000000000000000", f.balance(t, native, bob).String())
	require.Equal(int64(0), f.balance(t, native, marketAddr).Int64())
	require.Len(f.listedIds(t), 0)

	ev := f.lastEvent(t)
	require.Equal(event.KindPurchasedListing, ev.Kind)
	require.Equal(bob, ev.From)
	require.Equal(alice, ev.To)
	require.Equal(uint64(1), ev.TokenId)

	err = f.update(func(tx *store.Tx) error {
		return f.ex.PurchaseListing(tx, bob, 1, oneBNB)
	})
	require.True(fault.Is(err, fault.State))
}

func TestPurchaseNativeShortBalance(t *testing.T) {
	require := require.New(t)
	f := setup(t, true)
	f.list(t, 1, oneBNB, native)

	err := f.update(func(tx *store.Tx) error {
		return f.ex.PurchaseListing(tx, bob, 1, oneBNB)
	})
	require.True(fault.Is(err, fault.Funds))
	require.Equal(marketAddr, f.ownerOf(t, 1))
	require.Equal([]uint64{1}, f.listedIds(t))
}

func TestPurchaseFungible(t *testing.T) {
	require := require.New(t)
	f := setup(t, true)
	f.list(t, 2, big.NewInt(1000), busd)

	err := f.update(func(tx *store.Tx) error {
		return asset.Issue(tx, admin, asset.Fungible(busd), bob, big.NewInt(5000))
	})
	require.NoError(err)

	err = f.update(func(tx *store.Tx) error {
		return f.ex.PurchaseListing(tx, bob, 2, nil)
	})
	require.True(fault.Is(err, fault.Funds))

	err = f.update(func(tx *store.Tx) error {
		return asset.Approve(tx, asset.Fungible(busd), bob, marketAddr, big.NewInt(1000))
	})
	require.NoError(err)

	err = f.update(func(tx *store.Tx) error {
		return f.ex.PurchaseListing(tx, bob, 2, big.NewInt(1000))
	})
	require.True(fault.Is(err, fault.Precondition))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.PurchaseListing(tx, bob, 2, big.NewInt(0))
	})
	require.NoError(err)

	require.Equal(bob, f.ownerOf(t, 2))
	require.Equal(int64(4000), f.balance(t, busd, bob).Int64())
	require.Equal(int64(990), f.balance(t, busd, alice).Int64())
	require.Equal(int64(10), f.balance(t, busd, treasury).Int64())
	require.Equal(int64(0), f.balance(t, busd, marketAddr).Int64())

	total := new(big.Int)
	for _, who := range []common.Address{alice, bob, treasury, marketAddr} {
		total.Add(total, f.balance(t, busd, who))
	}
	require.Equal(int64(5000), total.Int64())
}

func TestTaxAbovePrice(t *testing.T) {
	require := require.New(t)
	f := setup(t, true)
	f.list(t, 1, big.NewInt(1000), busd)

	err := f.update(func(tx *store.Tx) error {
		err := f.ex.SetTax(tx, admin, 1001)
		if err != nil {
			return err
		}
		err = asset.Issue(tx, admin, asset.Fungible(busd), bob, big.NewInt(1000))
		if err != nil {
			return err
		}
		return asset.Approve(tx, asset.Fungible(busd), bob, marketAddr, big.NewInt(1000))
	})
	require.NoError(err)

	err = f.update(func(tx *store.Tx) error {
		return f.ex.PurchaseListing(tx, bob, 1, nil)
	})
	require.True(fault.Is(err, fault.Precondition))
	require.Equal(int64(1000), f.balance(t, busd, bob).Int64())

	err = f.update(func(tx *store.Tx) error {
		err := f.ex.SetTax(tx, admin, 0)
		if err != nil {
			return err
		}
		return f.ex.PurchaseListing(tx, bob, 1, nil)
	})
	require.NoError(err)
	require.Equal(int64(1000), f.balance(t, busd, alice).Int64())
	require.Equal(int64(0), f.balance(t, busd, treasury).Int64())
}

func TestCancelListing(t *testing.T) {
	require := require.New(t)
	f := setup(t, true)
	f.list(t, 1, oneBNB, native)
	f.list(t, 2, oneBNB, native)
	f.list(t, 3, big.NewInt(10), busd)
	require.Equal([]uint64{1, 2, 3}, f.listedIds(t))

	err := f.update(func(tx *store.Tx) error {
		return f.ex.CancelListing(tx, bob, 1)
	})
	require.True(fault.Is(err, fault.Authorization))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.CancelListing(tx, alice, 1)
	})
	require.NoError(err)
	require.Equal(alice, f.ownerOf(t, 1))
	require.Equal([]uint64{3, 2}, f.listedIds(t))
	require.Equal(event.KindCancelledListing, f.lastEvent(t).Kind)

	err = f.update(func(tx *store.Tx) error {
		return f.ex.CancelListing(tx, alice, 2)
	})
	require.NoError(err)
	require.Equal([]uint64{3}, f.listedIds(t))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.CancelListing(tx, alice, 2)
	})
	require.True(fault.Is(err, fault.State))

	err = f.bs.View(func(tx *store.Tx) error {
		listings, err := f.ex.ListingSlice(tx, 1, 10)
		require.NoError(err)
		require.Len(listings, 0)

		_, err = f.ex.ListingSlice(tx, -1, 10)
		require.True(fault.Is(err, fault.Precondition))
		return nil
	})
	require.NoError(err)
}

func TestChangeListingPrice(t *testing.T) {
	require := require.New(t)
	f := setup(t, true)
	f.list(t, 1, oneBNB, native)

	err := f.update(func(tx *store.Tx) error {
		return f.ex.ChangeListingPrice(tx, bob, 1, big.NewInt(5), asset.Fungible(busd))
	})
	require.True(fault.Is(err, fault.Authorization))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.ChangeListingPrice(tx, alice, 1, big.NewInt(5), asset.Fungible(hecta))
	})
	require.True(fault.Is(err, fault.Precondition))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.ChangeListingPrice(tx, alice, 2, big.NewInt(5), asset.Fungible(busd))
	})
	require.True(fault.Is(err, fault.State))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.ChangeListingPrice(tx, alice, 1, big.NewInt(5), asset.Fungible(busd))
	})
	require.NoError(err)

	err = f.bs.View(func(tx *store.Tx) error {
		l, err := f.ex.Listing(tx, 1)
		require.NoError(err)
		require.Equal(int64(5), l.Price.Int64())
		require.Equal(busd, l.Currency.Address())
		require.Equal(uint64(0), l.Position)
		return nil
	})
	require.NoError(err)

	ev := f.lastEvent(t)
	require.Equal(event.KindListingPriceChange, ev.Kind)
	require.Equal(busd, ev.Currency)
}

func TestCurrencies(t *testing.T) {
	require := require.New(t)
	f := setup(t, true)
	f.list(t, 1, big.NewInt(100), busd)

	accepted := func(token common.Address) bool {
		var ok bool
		err := f.bs.View(func(tx *store.Tx) error {
			var err error
			ok, err = f.ex.IsAccepted(tx, asset.FromAddress(token))
			return err
		})
		require.NoError(err)
		return ok
	}
	require.True(accepted(native))
	require.True(accepted(busd))
	require.False(accepted(hecta))
	require.False(accepted(common.Address{}))

	err := f.update(func(tx *store.Tx) error {
		return f.ex.DisableCurrency(tx, admin, native)
	})
	require.True(fault.Is(err, fault.Precondition))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.EnableCurrency(tx, alice, hecta)
	})
	require.True(fault.Is(err, fault.Authorization))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.EnableCurrency(tx, admin, registryAddr)
	})
	require.True(fault.Is(err, fault.Precondition))

	err = f.update(func(tx *store.Tx) error {
		err := f.ex.EnableCurrency(tx, admin, hecta)
		if err != nil {
			return err
		}
		return f.ex.DisableCurrency(tx, admin, busd)
	})
	require.NoError(err)
	require.True(accepted(hecta))
	require.False(accepted(busd))

	err = f.update(func(tx *store.Tx) error {
		err := asset.Issue(tx, admin, asset.Fungible(busd), bob, big.NewInt(100))
		if err != nil {
			return err
		}
		err = asset.Approve(tx, asset.Fungible(busd), bob, marketAddr, big.NewInt(100))
		if err != nil {
			return err
		}
		return f.ex.PurchaseListing(tx, bob, 1, nil)
	})
	require.NoError(err)
	require.Equal(bob, f.ownerOf(t, 1))
}

func TestSetCollection(t *testing.T) {
	require := require.New(t)
	f := setup(t, false)

	err := f.update(func(tx *store.Tx) error {
		err := f.reg.Approve(tx, alice, marketAddr, 1)
		if err != nil {
			return err
		}
		return f.ex.AddListing(tx, alice, 1, oneBNB, asset.Native())
	})
	require.True(fault.Is(err, fault.State))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.SetCollection(tx, admin, busd)
	})
	require.True(fault.Is(err, fault.Precondition))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.SetCollection(tx, alice, registryAddr)
	})
	require.True(fault.Is(err, fault.Authorization))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.SetCollection(tx, admin, registryAddr)
	})
	require.NoError(err)

	err = f.update(func(tx *store.Tx) error {
		return f.ex.SetCollection(tx, admin, registryAddr)
	})
	require.True(fault.Is(err, fault.State))

	f.list(t, 1, oneBNB, native)
	require.Equal([]uint64{1}, f.listedIds(t))
}

func TestPausedRegistryBlocksListing(t *testing.T) {
	require := require.New(t)
	f := setup(t, true)
	f.list(t, 1, oneBNB, native)

	err := f.update(func(tx *store.Tx) error {
		err := asset.Issue(tx, admin, asset.Native(), bob, oneBNB)
		if err != nil {
			return err
		}
		return f.reg.Pause(tx, admin)
	})
	require.NoError(err)

	err = f.update(func(tx *store.Tx) error {
		return f.ex.PurchaseListing(tx, bob, 1, oneBNB)
	})
	require.True(fault.Is(err, fault.State))
	require.Equal(oneBNB.String(), f.balance(t, native, bob).String())

	err = f.update(func(tx *store.Tx) error {
		return f.ex.CancelListing(tx, alice, 1)
	})
	require.True(fault.Is(err, fault.State))
	require.Equal(marketAddr, f.ownerOf(t, 1))
}

func TestMarketAdmin(t *testing.T) {
	require := require.New(t)
	f := setup(t, true)

	err := f.update(func(tx *store.Tx) error {
		return f.ex.SetTaxRecipient(tx, alice, alice)
	})
	require.True(fault.Is(err, fault.Authorization))

	err = f.update(func(tx *store.Tx) error {
		return f.ex.SetTaxRecipient(tx, admin, common.Address{})
	})
	require.True(fault.Is(err, fault.Precondition))

	err = f.update(func(tx *store.Tx) error {
		err := f.ex.SetTaxRecipient(tx, admin, bob)
		if err != nil {
			return err
		}
		return f.ex.TransferOwnership(tx, admin, alice)
	})
	require.NoError(err)

	err = f.bs.View(func(tx *store.Tx) error {
		m, err := f.ex.Market(tx)
		require.NoError(err)
		require.Equal(bob, m.TaxRecipient)
		require.Equal(alice, m.Owner)
		require.Equal(registryAddr, m.Collection)
		require.Equal(uint64(market.DefaultTaxRate), m.TaxRate)
		return nil
	})
	require.NoError(err)

	err = f.update(func(tx *store.Tx) error {
		return f.ex.SetTax(tx, admin, 5)
	})
	require.True(fault.Is(err, fault.Authorization))
}
