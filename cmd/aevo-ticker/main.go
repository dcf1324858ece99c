package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aevoxyz/aevo-sdk/aevo/types"
	"github.com/aevoxyz/aevo-sdk/aevo/ws"
)

func main() {
	var (
		env        = flag.String("env", getenv("AEVO_ENV", "testnet"), "environment: testnet or mainnet")
		instrument = flag.String("instrument", "ETH-PERP", "instrument name to stream")
		index      = flag.String("index", "", "optional index asset to stream, e.g. ETH")
	)
	flag.Parse()

	e, err := types.ParseEnv(*env)
	if err != nil {
		fatal(err)
	}

	client := ws.NewClient(e, "", "", nil)
	if err := client.Start(context.Background()); err != nil {
		fatal(err)
	}
	defer client.Stop()

	channels := []string{ws.TickerChannel(*instrument)}
	if *index != "" {
		channels = append(channels, ws.IndexChannel(strings.ToUpper(*index)))
	}
	if err := client.Subscribe(channels...); err != nil {
		fatal(err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			return
		case err := <-client.Errors():
			fmt.Fprintln(os.Stderr, "error:", err)
		case msg := <-client.Messages():
			if strings.HasPrefix(msg.Channel, "ticker") {
				var t ws.Ticker
				if err := json.Unmarshal(msg.Data, &t); err == nil && t.InstrumentName != "" {
					fmt.Printf("%s bid=%s ask=%s mark=%s\n",
						t.InstrumentName, t.Bid.Price, t.Ask.Price, t.MarkPrice)
					continue
				}
			}
			fmt.Printf("%s %s\n", msg.Channel, string(msg.Data))
		}
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
