package types

import "encoding/json"

// OrderRequest is the signed order payload posted to /orders or sent over
// the WS create_order/edit_order ops. Price and amount are integer strings
// in minimal units; the signature covers maker, is_buy, limit_price,
// amount, salt, instrument and timestamp.
type OrderRequest struct {
	Maker         string `json:"maker"`
	IsBuy         bool   `json:"is_buy"`
	Instrument    int64  `json:"instrument"`
	LimitPrice    string `json:"limit_price"`
	Amount        string `json:"amount"`
	Salt          string `json:"salt"`
	Signature     string `json:"signature"`
	Timestamp     int64  `json:"timestamp"`
	PostOnly      bool   `json:"post_only"`
	ReduceOnly    bool   `json:"reduce_only,omitempty"`
	ClosePosition bool   `json:"close_position,omitempty"`
	MMP           bool   `json:"mmp,omitempty"`
	Trigger       string `json:"trigger,omitempty"`
	Stop          string `json:"stop,omitempty"`
	OrderID       string `json:"order_id,omitempty"` // edit_order only
}

// WithdrawRequest is the signed withdrawal payload posted to /withdraw.
type WithdrawRequest struct {
	Account    string `json:"account"`
	Collateral string `json:"collateral"`
	To         string `json:"to"`
	Amount     string `json:"amount"`
	Salt       string `json:"salt"`
	Signature  string `json:"signature"`
	Data       string `json:"data,omitempty"`
}

// RegisterRequest registers a signing key for an account; both parties sign
// so neither key can be registered unilaterally.
type RegisterRequest struct {
	Account             string `json:"account"`
	SigningKey          string `json:"signing_key"`
	Expiry              string `json:"expiry"`
	AccountSignature    string `json:"account_signature"`
	SigningKeySignature string `json:"signing_key_signature"`
}

// Index is the /index response.
type Index struct {
	Timestamp json.Number `json:"timestamp"`
	Price     string      `json:"price"`
}

// Market is one instrument entry of the /markets response. The API carries
// many more optional fields; only those the SDK consumes are typed.
type Market struct {
	InstrumentID    json.Number `json:"instrument_id"`
	InstrumentName  string      `json:"instrument_name"`
	InstrumentType  string      `json:"instrument_type"`
	UnderlyingAsset string      `json:"underlying_asset"`
	QuoteAsset      string      `json:"quote_asset"`
	MarkPrice       string      `json:"mark_price"`
	IndexPrice      string      `json:"index_price"`
	IsActive        bool        `json:"is_active"`
	MinOrderValue   string      `json:"min_order_value"`
	MaxOrderValue   string      `json:"max_order_value"`
	AmountStep      string      `json:"amount_step"`
	PriceStep       string      `json:"price_step"`
}

// Account is the /account response, reduced to the commonly used fields.
type Account struct {
	Account          string     `json:"account"`
	Username         string     `json:"username"`
	EquityValue      string     `json:"equity_value"`
	AvailableBalance string     `json:"available_balance"`
	Balance          string     `json:"balance"`
	Positions        []Position `json:"positions"`
}

// Position is one open position inside the account/portfolio responses.
type Position struct {
	InstrumentID   json.Number `json:"instrument_id"`
	InstrumentName string      `json:"instrument_name"`
	Asset          string      `json:"asset"`
	Amount         string      `json:"amount"`
	Side           string      `json:"side"`
	MarkPrice      string      `json:"mark_price"`
	AvgEntryPrice  string      `json:"avg_entry_price"`
	UnrealizedPnl  string      `json:"unrealized_pnl"`
}

// Portfolio is the /portfolio response.
type Portfolio struct {
	Balance      string     `json:"balance"`
	PnL          string     `json:"pnl"`
	Realized     string     `json:"realized_pnl"`
	ProfitFactor string     `json:"profit_factor"`
	WinRate      string     `json:"win_rate"`
	Positions    []Position `json:"positions"`
}

// OpenOrder is one entry of the /orders response.
type OpenOrder struct {
	OrderID          string      `json:"order_id"`
	InstrumentID     json.Number `json:"instrument_id"`
	InstrumentName   string      `json:"instrument_name"`
	Side             string      `json:"side"`
	Price            string      `json:"price"`
	Amount           string      `json:"amount"`
	Filled           string      `json:"filled"`
	OrderStatus      string      `json:"order_status"`
	OrderType        string      `json:"order_type"`
	CreatedTimestamp json.Number `json:"created_timestamp"`
}

// APIError is the error envelope REST endpoints return.
type APIError struct {
	Error string `json:"error"`
}
