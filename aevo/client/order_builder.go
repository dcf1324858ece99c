package client

import (
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/aevoxyz/aevo-sdk/aevo/signing"
	"github.com/aevoxyz/aevo-sdk/aevo/types"
)

// All on-chain quantities use six decimals of precision.
const quoteDecimals = 6

// maxUint256 is the limit price of a market buy; a market sell uses zero.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// OrderParams describe an order in human units. Price and Quantity are
// decimal strings; Price is ignored when Market is set.
type OrderParams struct {
	Instrument int64
	IsBuy      bool
	Price      string
	Quantity   string
	Market     bool
	PostOnly   bool
	ReduceOnly bool
	MMP        bool
	Trigger    string
	Stop       string
}

// scaleAmount converts a human decimal string into minimal integer units,
// banker's rounding on the sub-unit remainder.
func scaleAmount(value string) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, errors.Wrapf(err, "parse decimal %q", value)
	}
	if d.IsNegative() {
		return nil, errors.Errorf("negative amount %q", value)
	}
	return d.Shift(quoteDecimals).RoundBank(0).BigInt(), nil
}

func (c *Client) buildOrder(p OrderParams) (*types.OrderRequest, *signing.SignedOrder, error) {
	if c.cfg.SigningKey == nil {
		return nil, nil, errors.New("signing key required to place orders")
	}
	maker, err := c.signingAddress()
	if err != nil {
		return nil, nil, err
	}

	amount, err := scaleAmount(p.Quantity)
	if err != nil {
		return nil, nil, err
	}
	var limitPrice *big.Int
	switch {
	case p.Market && p.IsBuy:
		limitPrice = maxUint256
	case p.Market:
		limitPrice = big.NewInt(0)
	default:
		if limitPrice, err = scaleAmount(p.Price); err != nil {
			return nil, nil, err
		}
	}

	now := time.Now().Unix()
	signed, err := signing.SignOrder(c.cfg.Env, c.cfg.SigningKey, signing.OrderParams{
		Maker:      maker,
		IsBuy:      p.IsBuy,
		LimitPrice: limitPrice,
		Amount:     amount,
		Instrument: p.Instrument,
		Timestamp:  now,
	}, nil)
	if err != nil {
		return nil, nil, err
	}

	req := &types.OrderRequest{
		Maker:      maker,
		IsBuy:      p.IsBuy,
		Instrument: p.Instrument,
		LimitPrice: limitPrice.String(),
		Amount:     amount.String(),
		Salt:       signed.Salt.String(),
		Signature:  signed.Signature,
		Timestamp:  now,
		PostOnly:   p.PostOnly && !p.Market,
		ReduceOnly: p.ReduceOnly,
		MMP:        p.MMP,
		Trigger:    p.Trigger,
		Stop:       p.Stop,
	}
	return req, signed, nil
}

func (c *Client) buildWithdraw(walletKey *ecdsa.PrivateKey, collateral, to string, amount string) (*types.WithdrawRequest, error) {
	if walletKey == nil {
		return nil, errors.New("wallet key required to withdraw")
	}
	contracts := c.cfg.Env.Contracts()
	if collateral == "" {
		collateral = contracts.L2USDC
	}
	// withdrawals route through the proxy unless an explicit recipient is
	// given; an empty address would otherwise sign funds to address zero
	if to == "" {
		to = contracts.L2WithdrawProxy
	}
	scaled, err := scaleAmount(amount)
	if err != nil {
		return nil, err
	}
	signed, err := signing.SignWithdraw(c.cfg.Env, walletKey, signing.WithdrawParams{
		Collateral: collateral,
		To:         to,
		Amount:     scaled,
	}, nil)
	if err != nil {
		return nil, err
	}
	account := c.cfg.WalletAddress
	if account == "" {
		account = crypto.PubkeyToAddress(walletKey.PublicKey).Hex()
	}
	return &types.WithdrawRequest{
		Account:    account,
		Collateral: collateral,
		To:         to,
		Amount:     scaled.String(),
		Salt:       signed.Salt.String(),
		Signature:  signed.Signature,
	}, nil
}
