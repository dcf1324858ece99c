package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/aevoxyz/aevo-sdk/aevo/client"
	"github.com/aevoxyz/aevo-sdk/aevo/types"
	"github.com/aevoxyz/aevo-sdk/pkg/config"
	"github.com/aevoxyz/aevo-sdk/pkg/logger"
)

func main() {
	var (
		cfgPath    = flag.String("config", "", "optional yaml config path; env vars used otherwise")
		instrument = flag.Int64("instrument", 0, "instrument id")
		side       = flag.String("side", "buy", "buy or sell")
		price      = flag.String("price", "", "limit price in human units")
		qty        = flag.String("qty", "", "order quantity in human units")
		market     = flag.Bool("market", false, "submit a market order (price ignored)")
		postOnly   = flag.Bool("post-only", false, "reject instead of crossing the book")
		cancel     = flag.String("cancel", "", "cancel one order by id and exit")
		cancelAll  = flag.Bool("cancel-all", false, "cancel all resting orders and exit")
		list       = flag.Bool("list", false, "list open orders and exit")
	)
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, OutputFile: cfg.Log.OutputFile}); err != nil {
		fatal(err)
	}
	c, err := buildClient(cfg)
	if err != nil {
		fatal(err)
	}
	ctx := context.Background()

	switch {
	case *cancel != "":
		if err := c.CancelOrder(ctx, *cancel); err != nil {
			fatal(err)
		}
		fmt.Println("cancelled", *cancel)
	case *cancelAll:
		if err := c.CancelAllOrders(ctx); err != nil {
			fatal(err)
		}
		fmt.Println("cancelled all orders")
	case *list:
		orders, err := c.GetOpenOrders(ctx)
		if err != nil {
			fatal(err)
		}
		for _, o := range orders {
			fmt.Printf("%s %s %s %s@%s filled=%s %s\n",
				o.OrderID, o.InstrumentName, o.Side, o.Amount, o.Price, o.Filled, o.OrderStatus)
		}
	default:
		if *instrument == 0 || *qty == "" {
			fatal(fmt.Errorf("-instrument and -qty are required to place an order"))
		}
		isBuy := strings.EqualFold(*side, "buy")
		if !isBuy && !strings.EqualFold(*side, "sell") {
			fatal(fmt.Errorf("side must be buy or sell, got %q", *side))
		}
		if !*market && *price == "" {
			fatal(fmt.Errorf("-price is required for limit orders"))
		}
		id, err := c.CreateOrder(ctx, client.OrderParams{
			Instrument: *instrument,
			IsBuy:      isBuy,
			Price:      *price,
			Quantity:   *qty,
			Market:     *market,
			PostOnly:   *postOnly,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Println("order id:", id)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}

func buildClient(cfg *config.Config) (*client.Client, error) {
	env, err := types.ParseEnv(cfg.Env)
	if err != nil {
		return nil, err
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.SigningKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	return client.NewClient(client.Config{
		Env:           env,
		WalletAddress: cfg.WalletAddress,
		SigningKey:    key,
		APIKey:        cfg.APIKey,
		APISecret:     cfg.APISecret,
	})
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
