// Package client is the REST client for the exchange API: public market
// data plus the authenticated account, order and withdrawal endpoints.
package client

import (
	"context"
	"crypto/ecdsa"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/aevoxyz/aevo-sdk/aevo/signing"
	"github.com/aevoxyz/aevo-sdk/aevo/types"
	"github.com/aevoxyz/aevo-sdk/pkg/httpclient"
	"github.com/aevoxyz/aevo-sdk/pkg/logger"
	"github.com/aevoxyz/aevo-sdk/pkg/ratelimit"
)

// Config wires a client to one environment and one account. APIKey and
// APISecret come from key registration; SigningKey signs orders and may
// differ from the wallet key.
type Config struct {
	Env           types.Env
	WalletAddress string
	SigningKey    *ecdsa.PrivateKey
	APIKey        string
	APISecret     string
}

type Client struct {
	cfg     Config
	http    *httpclient.Client
	limiter ratelimit.Limiter
}

// NewClient builds a REST client. Private endpoints additionally need the
// API credentials and signing key; public ones work with just the env.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Env != types.Testnet && cfg.Env != types.Mainnet {
		return nil, errors.Errorf("unknown environment %q", cfg.Env)
	}
	envCfg := cfg.Env.Configuration()
	return &Client{
		cfg:  cfg,
		http: httpclient.NewClient(envCfg.RestURL),
		// Private endpoints share one bucket so a burst of order traffic
		// cannot trip the server-side limit.
		limiter: ratelimit.NewTokenBucket(10, 10),
	}, nil
}

func (c *Client) authHeaders() (map[string]string, error) {
	if c.cfg.APIKey == "" || c.cfg.APISecret == "" {
		return nil, errors.New("api key and secret required for private endpoints")
	}
	return map[string]string{
		"AEVO-KEY":    c.cfg.APIKey,
		"AEVO-SECRET": c.cfg.APISecret,
	}, nil
}

func (c *Client) private(ctx context.Context, method, endpoint string, opt *httpclient.RequestOptions, out interface{}) error {
	headers, err := c.authHeaders()
	if err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limit")
	}
	if opt == nil {
		opt = &httpclient.RequestOptions{}
	}
	opt.Headers = headers
	return c.http.DoRequest(ctx, method, endpoint, opt, out)
}

// GetIndex returns the index price for an underlying asset, e.g. "ETH".
func (c *Client) GetIndex(ctx context.Context, asset string) (*types.Index, error) {
	var out types.Index
	err := c.http.DoRequest(ctx, http.MethodGet, "/index", &httpclient.RequestOptions{
		Params: map[string]string{"asset": strings.ToUpper(asset)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMarkets lists the instruments for an underlying asset.
func (c *Client) GetMarkets(ctx context.Context, asset string) ([]types.Market, error) {
	var out []types.Market
	err := c.http.DoRequest(ctx, http.MethodGet, "/markets", &httpclient.RequestOptions{
		Params: map[string]string{"asset": strings.ToUpper(asset)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccount returns the authenticated account state.
func (c *Client) GetAccount(ctx context.Context) (*types.Account, error) {
	var out types.Account
	if err := c.private(ctx, http.MethodGet, "/account", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPortfolio returns portfolio-level balances and positions.
func (c *Client) GetPortfolio(ctx context.Context) (*types.Portfolio, error) {
	var out types.Portfolio
	if err := c.private(ctx, http.MethodGet, "/portfolio", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOpenOrders lists resting orders for the account.
func (c *Client) GetOpenOrders(ctx context.Context) ([]types.OpenOrder, error) {
	var out struct {
		Orders []types.OpenOrder `json:"orders"`
	}
	if err := c.private(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// CreateOrder signs and submits a limit order, returning the assigned
// order id.
func (c *Client) CreateOrder(ctx context.Context, p OrderParams) (string, error) {
	payload, signed, err := c.buildOrder(p)
	if err != nil {
		return "", err
	}
	logger.Debugf("create order instrument=%d is_buy=%v price=%s amount=%s",
		payload.Instrument, payload.IsBuy, payload.LimitPrice, payload.Amount)
	var out types.OpenOrder
	if err := c.private(ctx, http.MethodPost, "/orders", &httpclient.RequestOptions{Body: payload}, &out); err != nil {
		return "", err
	}
	if out.OrderID != "" {
		return out.OrderID, nil
	}
	return signed.ID, nil
}

// CreateMarketOrder submits an order that crosses the book immediately by
// using the widest acceptable limit price for its side.
func (c *Client) CreateMarketOrder(ctx context.Context, instrument int64, isBuy bool, quantity string) (string, error) {
	return c.CreateOrder(ctx, OrderParams{
		Instrument: instrument,
		IsBuy:      isBuy,
		Quantity:   quantity,
		Market:     true,
	})
}

// CancelOrder cancels one resting order by id.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return errors.New("order id required")
	}
	return c.private(ctx, http.MethodDelete, "/orders/"+orderID, nil, nil)
}

// CancelAllOrders cancels every resting order for the account.
func (c *Client) CancelAllOrders(ctx context.Context) error {
	return c.private(ctx, http.MethodDelete, "/orders-all", nil, nil)
}

// Withdraw signs and submits a collateral withdrawal to the L1 bridge. The
// wallet key, not the signing key, authorizes withdrawals.
func (c *Client) Withdraw(ctx context.Context, walletKey *ecdsa.PrivateKey, collateral, to string, amount string) error {
	req, err := c.buildWithdraw(walletKey, collateral, to, amount)
	if err != nil {
		return err
	}
	return c.private(ctx, http.MethodPost, "/withdraw", &httpclient.RequestOptions{Body: req}, nil)
}

// Register registers a signing key for the wallet and returns the API
// credentials the server minted for it.
func (c *Client) Register(ctx context.Context, walletKey, signingKey *ecdsa.PrivateKey, expiry int64) (*RegisterResult, error) {
	req, err := signing.SignRegister(c.cfg.Env, walletKey, signingKey, expiry)
	if err != nil {
		return nil, err
	}
	var out RegisterResult
	err = c.http.DoRequest(ctx, http.MethodPost, "/register", &httpclient.RequestOptions{Body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterResult is the /register response.
type RegisterResult struct {
	Success    bool   `json:"success"`
	APIKey     string `json:"api_key"`
	APISecret  string `json:"api_secret"`
	SigningKey string `json:"signing_key"`
}

func (c *Client) signingAddress() (string, error) {
	if c.cfg.WalletAddress != "" {
		return c.cfg.WalletAddress, nil
	}
	if c.cfg.SigningKey == nil {
		return "", errors.New("wallet address or signing key required")
	}
	return crypto.PubkeyToAddress(c.cfg.SigningKey.PublicKey).Hex(), nil
}
