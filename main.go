package main

import (
	"context"
	"flag"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/MixinNetwork/bnft/ledger"
	"github.com/MixinNetwork/bnft/market"
	"github.com/MixinNetwork/bnft/store"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/ethereum/go-ethereum/common"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bp := flag.String("d", "", "database directory path, store.dir of the configuration by default")
	cp := flag.String("c", "~/.mixin/bnft/config.toml", "configuration file path")
	ep := flag.Int("e", 10, "number of latest events to print")
	flag.Parse()

	conf, err := ledger.Setup(expandHome(*cp))
	if err != nil {
		panic(err)
	}
	logger.SetLevel(conf.Logger.Level)

	if *bp == "" {
		*bp = conf.Store.Dir
	}
	db, err := store.OpenBadger(ctx, expandHome(*bp))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	clock, err := ledger.NewClock(db)
	if err != nil {
		panic(err)
	}
	l, err := ledger.Open(ctx, db, conf, clock)
	if err != nil {
		panic(err)
	}

	c, err := l.Collection(ctx)
	if err != nil {
		panic(err)
	}
	m, err := l.Market(ctx)
	if err != nil {
		panic(err)
	}
	reserve := "unset"
	if c.ReserveAsset != (common.Address{}) {
		reserve = c.ReserveAsset.Hex()
	}
	logger.Printf("%s (%s) %s supply %d/%d next %d reserve %s paused %t\n", c.Name, c.Symbol, c.Address.Hex(), c.Supply, c.MaxSupply, c.Counter, reserve, c.Paused)
	logger.Printf("market %s listings %d tax %d/%d to %s\n", m.Address.Hex(), m.Listings, m.TaxRate, market.TaxDenominator, m.TaxRecipient.Hex())

	seq, err := l.EventSequence(ctx)
	if err != nil {
		panic(err)
	}
	if *ep <= 0 {
		return
	}
	var offset uint64
	if seq > uint64(*ep) {
		offset = seq - uint64(*ep)
	}
	events, err := l.ListEvents(ctx, offset, *ep)
	if err != nil {
		panic(err)
	}
	for _, ev := range events {
		logger.Printf("%s\n", ev)
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	usr, _ := user.Current()
	return filepath.Join(usr.HomeDir, path[2:])
}
