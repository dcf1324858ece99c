package ws

import (
	"encoding/json"
	"time"
)

// Config tunes connection behavior. Zero values are filled in from
// DefaultConfig.
type Config struct {
	HandshakeTimeout     time.Duration
	PingInterval         time.Duration
	ReconnectEnabled     bool
	ReconnectDelay       time.Duration
	MaxReconnectDelay    time.Duration
	MaxReconnectAttempts int
	MessageBufferSize    int
	ErrorBufferSize      int

	// OnDisconnect runs after the connection drops, before any reconnect
	// attempt. Optional.
	OnDisconnect func(err error)
}

func DefaultConfig() *Config {
	return &Config{
		HandshakeTimeout:     10 * time.Second,
		PingInterval:         30 * time.Second,
		ReconnectEnabled:     true,
		ReconnectDelay:       1 * time.Second,
		MaxReconnectDelay:    30 * time.Second,
		MaxReconnectAttempts: 10,
		MessageBufferSize:    256,
		ErrorBufferSize:      16,
	}
}

// request is the envelope for every client-to-server frame.
type request struct {
	ID   string      `json:"id,omitempty"`
	Op   string      `json:"op"`
	Data interface{} `json:"data,omitempty"`
}

// Message is one server frame. Data stays raw so each channel's payload can
// be decoded by the consumer that knows its shape.
type Message struct {
	ID      string          `json:"id,omitempty"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Ticker is the payload of ticker and tickers channel frames.
type Ticker struct {
	InstrumentName string `json:"instrument_name"`
	Bid            Quote  `json:"bid"`
	Ask            Quote  `json:"ask"`
	MarkPrice      string `json:"mark"`
	IndexPrice     string `json:"index"`
	Funding        string `json:"funding_rate"`
}

type Quote struct {
	Price  string `json:"price"`
	Amount string `json:"amount"`
}

// Channel name builders for the subscription ops.

func TickerChannel(instrument string) string { return "ticker:" + instrument }

func TickersChannel(asset string) string { return "tickers:" + asset }

func OrderbookChannel(instrument string) string { return "orderbook:" + instrument }

func TradesChannel(instrument string) string { return "trades:" + instrument }

func IndexChannel(asset string) string { return "index:" + asset }

func MarkPriceChannel(asset string) string { return "markprice:" + asset }

// OrdersChannel and FillsChannel require an authenticated connection.
const (
	OrdersChannel = "orders"
	FillsChannel  = "fills"
)
