package ws

import (
	"encoding/json"
	"testing"
)

func TestChannelNames(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{TickerChannel("ETH-PERP"), "ticker:ETH-PERP"},
		{TickersChannel("ETH"), "tickers:ETH"},
		{OrderbookChannel("ETH-PERP"), "orderbook:ETH-PERP"},
		{TradesChannel("ETH-PERP"), "trades:ETH-PERP"},
		{IndexChannel("ETH"), "index:ETH"},
		{MarkPriceChannel("ETH"), "markprice:ETH"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("got %q, want %q", c.got, c.want)
		}
	}
}

func TestRequestMarshal(t *testing.T) {
	data, err := json.Marshal(request{
		ID:   "1",
		Op:   "subscribe",
		Data: []string{"ticker:ETH-PERP"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"1","op":"subscribe","data":["ticker:ETH-PERP"]}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}

	// empty id and data stay off the wire
	data, err = json.Marshal(request{Op: "ping"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"op":"ping"}` {
		t.Errorf("marshal = %s", data)
	}
}

func TestMessageUnmarshal(t *testing.T) {
	raw := `{"channel":"ticker:ETH-PERP","data":{"instrument_name":"ETH-PERP","bid":{"price":"2000.1","amount":"5"},"ask":{"price":"2000.5","amount":"3"},"mark":"2000.3"}}`
	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Channel != "ticker:ETH-PERP" {
		t.Errorf("channel = %s", msg.Channel)
	}
	var ticker Ticker
	if err := json.Unmarshal(msg.Data, &ticker); err != nil {
		t.Fatal(err)
	}
	if ticker.Bid.Price != "2000.1" || ticker.Ask.Amount != "3" {
		t.Errorf("ticker = %+v", ticker)
	}
	if ticker.MarkPrice != "2000.3" {
		t.Errorf("mark = %s", ticker.MarkPrice)
	}
}

func TestServerErrorFrame(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"id":"9","error":"UNAUTHORIZED"}`), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Error != "UNAUTHORIZED" {
		t.Errorf("error = %s", msg.Error)
	}
}
