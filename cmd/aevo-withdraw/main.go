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
		to         = flag.String("to", "", "recipient address (defaults to the withdraw proxy)")
		amount     = flag.String("amount", "", "amount in human units, e.g. 100.5")
		collateral = flag.String("collateral", "", "collateral token address (defaults to USDC)")
	)
	flag.Parse()

	if *amount == "" {
		fatal(fmt.Errorf("-amount is required"))
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, OutputFile: cfg.Log.OutputFile}); err != nil {
		fatal(err)
	}
	env, err := types.ParseEnv(cfg.Env)
	if err != nil {
		fatal(err)
	}
	if cfg.WalletPrivateKey == "" {
		fatal(fmt.Errorf("wallet private key is required to withdraw"))
	}
	walletKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.WalletPrivateKey, "0x"))
	if err != nil {
		fatal(fmt.Errorf("parse wallet key: %w", err))
	}

	c, err := client.NewClient(client.Config{
		Env:           env,
		WalletAddress: cfg.WalletAddress,
		APIKey:        cfg.APIKey,
		APISecret:     cfg.APISecret,
	})
	if err != nil {
		fatal(err)
	}

	if err := c.Withdraw(context.Background(), walletKey, *collateral, *to, *amount); err != nil {
		fatal(err)
	}
	fmt.Printf("withdrawal of %s submitted\n", *amount)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
