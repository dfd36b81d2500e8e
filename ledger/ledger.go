package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/MixinNetwork/bnft/asset"
	"github.com/MixinNetwork/bnft/event"
	"github.com/MixinNetwork/bnft/fault"
	"github.com/MixinNetwork/bnft/market"
	"github.com/MixinNetwork/bnft/nft"
	"github.com/MixinNetwork/bnft/store"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gofrs/uuid"
)

// Ledger serializes every operation against the registry, the market and
// the fungible assets. Each operation runs in one store transaction, it
// either commits with all its effects and events or leaves no trace.
type Ledger struct {
	mu       sync.Mutex
	store    Store
	clock    Clock
	registry *nft.Registry
	exchange *market.Exchange
}

// Receipt is what a committed operation produced.
type Receipt struct {
	Events   []*event.Event
	TokenIds []uint64
	Amount   *big.Int
}

func Open(ctx context.Context, s Store, conf *Configuration, clock Clock) (*Ledger, error) {
	err := conf.Validate()
	if err != nil {
		return nil, err
	}
	registry := nft.NewRegistry(common.HexToAddress(conf.Registry.Address))
	l := &Ledger{
		store:    s,
		clock:    clock,
		registry: registry,
		exchange: market.NewExchange(common.HexToAddress(conf.Market.Address), registry),
	}
	_, err = l.update(ctx, "Genesis", common.HexToAddress(conf.Registry.Owner), func(tx *store.Tx) error {
		return l.genesis(tx, conf)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// genesis runs once per store, a reopened ledger keeps its state and
// ignores the configuration beyond the contract addresses.
func (l *Ledger) genesis(tx *store.Tx, conf *Configuration) error {
	old, err := tx.ReadCollection(l.registry.Address())
	if err != nil || old != nil {
		return err
	}

	err = asset.RegisterNative(tx, conf.Native.Symbol, common.HexToAddress(conf.Native.Issuer))
	if err != nil {
		return err
	}
	for _, a := range conf.Assets {
		err = asset.Register(tx, &asset.Info{
			Address:  common.HexToAddress(a.Address),
			Symbol:   a.Symbol,
			Decimals: a.Decimals,
			Issuer:   common.HexToAddress(a.Issuer),
		})
		if err != nil {
			return err
		}
	}

	owner := common.HexToAddress(conf.Registry.Owner)
	err = l.registry.Genesis(tx, &nft.Collection{
		Name:         conf.Registry.Name,
		Symbol:       conf.Registry.Symbol,
		BaseURI:      conf.Registry.BaseURI,
		Owner:        owner,
		MaxSupply:    conf.Registry.MaxSupply,
		RedeemableAt: conf.Registry.RedeemableAt,
	})
	if err != nil {
		return err
	}
	if conf.Registry.ReserveAsset != "" {
		err = l.registry.SetReserveAsset(tx, owner, common.HexToAddress(conf.Registry.ReserveAsset))
		if err != nil {
			return err
		}
	}

	m := &market.Market{
		Owner:        common.HexToAddress(conf.Market.Owner),
		TaxRate:      conf.Market.TaxRate,
		TaxRecipient: common.HexToAddress(conf.Market.TaxRecipient),
	}
	if conf.Market.Collection != "" {
		m.Collection = common.HexToAddress(conf.Market.Collection)
	}
	currencies := make([]common.Address, len(conf.Market.Currencies))
	for i, c := range conf.Market.Currencies {
		currencies[i] = common.HexToAddress(c)
	}
	return l.exchange.Genesis(tx, m, currencies)
}

func (l *Ledger) Registry() *nft.Registry {
	return l.registry
}

func (l *Ledger) Exchange() *market.Exchange {
	return l.exchange
}

func (l *Ledger) update(ctx context.Context, name string, caller common.Address, fn func(tx *store.Tx) error) (*Receipt, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}
	if caller == (common.Address{}) {
		return nil, fault.Unauthorized("%s by the zero address", name)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	events, err := l.store.Update(l.clock.Now(), fn)
	if err != nil {
		logger.Verbosef("Ledger.%s() => %v\n", name, err)
		return nil, err
	}
	for _, ev := range events {
		logger.Verbosef("Ledger.%s() => %s\n", name, ev)
	}
	return &Receipt{Events: events}, nil
}

func (l *Ledger) view(ctx context.Context, fn func(tx *store.Tx) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	return l.store.View(fn)
}

// ListEvents returns up to limit committed events with a sequence greater
// than offset, oldest first.
func (l *Ledger) ListEvents(ctx context.Context, offset uint64, limit int) ([]*event.Event, error) {
	var events []*event.Event
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		events, err = tx.ListEvents(offset, limit)
		return err
	})
	return events, err
}

// EventSequence returns the sequence of the latest committed event.
func (l *Ledger) EventSequence(ctx context.Context) (uint64, error) {
	var seq uint64
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		seq, err = tx.ReadEventSequence()
		return err
	})
	return seq, err
}

func (l *Ledger) ReadEventByTrace(ctx context.Context, traceId uuid.UUID) (*event.Event, error) {
	var ev *event.Event
	err := l.view(ctx, func(tx *store.Tx) error {
		var err error
		ev, err = tx.ReadEventByTrace(traceId)
		return err
	})
	return ev, err
}
