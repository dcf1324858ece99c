// Package signing builds and signs the typed payloads the exchange
// verifies on-chain: orders, withdrawals and signing-key registrations.
package signing

import (
	"crypto/ecdsa"
	"crypto/rand"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/aevoxyz/aevo-sdk/aevo/types"
	"github.com/aevoxyz/aevo-sdk/eip712"
)

var (
	// OrderType covers limit and market orders alike; market orders use
	// an extreme limit price.
	OrderType = eip712.MustStructType("Order",
		eip712.Field{Name: "maker", Type: eip712.Address()},
		eip712.Field{Name: "isBuy", Type: eip712.Boolean()},
		eip712.Field{Name: "limitPrice", Type: eip712.Uint(256)},
		eip712.Field{Name: "amount", Type: eip712.Uint(256)},
		eip712.Field{Name: "salt", Type: eip712.Uint(256)},
		eip712.Field{Name: "instrument", Type: eip712.Uint(256)},
		eip712.Field{Name: "timestamp", Type: eip712.Uint(256)},
	)

	WithdrawType = eip712.MustStructType("Withdraw",
		eip712.Field{Name: "collateral", Type: eip712.Address()},
		eip712.Field{Name: "to", Type: eip712.Address()},
		eip712.Field{Name: "amount", Type: eip712.Uint(256)},
		eip712.Field{Name: "salt", Type: eip712.Uint(256)},
		eip712.Field{Name: "data", Type: eip712.Bytes(32)},
	)

	RegisterType = eip712.MustStructType("Register",
		eip712.Field{Name: "key", Type: eip712.Address()},
		eip712.Field{Name: "expiry", Type: eip712.Uint(256)},
	)

	SignKeyType = eip712.MustStructType("SignKey",
		eip712.Field{Name: "account", Type: eip712.Address()},
	)
)

// saltBound keeps salts inside the range the exchange accepts.
var saltBound = big.NewInt(10_000_000_000)

// Domain returns the signing domain for env.
func Domain(env types.Env) (*eip712.Domain, error) {
	cfg := env.Configuration()
	return eip712.MakeDomain(eip712.DomainConfig{
		Name:    cfg.SigningDomain.Name,
		Version: cfg.SigningDomain.Version,
		ChainID: cfg.SigningDomain.ChainID,
	})
}

// NewSalt draws a random salt in [0, 10^10).
func NewSalt() (*big.Int, error) {
	salt, err := rand.Int(rand.Reader, saltBound)
	if err != nil {
		return nil, errors.Wrap(err, "draw salt")
	}
	return salt, nil
}

// signHash signs digest and shifts the recovery id to the 27/28 convention
// the exchange expects.
func signHash(digest []byte, key *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return "", errors.Wrap(err, "sign digest")
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}

// SignedOrder is a signed order ready to be submitted. ID is the typed-data
// digest, which doubles as the exchange order id.
type SignedOrder struct {
	Salt      *big.Int
	Signature string
	ID        string
}

// OrderParams are the signable order fields in minimal integer units.
type OrderParams struct {
	Maker      string
	IsBuy      bool
	LimitPrice *big.Int
	Amount     *big.Int
	Instrument int64
	Timestamp  int64
}

// SignOrder signs an order with the account's registered signing key. A nil
// salt draws a fresh one.
func SignOrder(env types.Env, key *ecdsa.PrivateKey, p OrderParams, salt *big.Int) (*SignedOrder, error) {
	if salt == nil {
		var err error
		if salt, err = NewSalt(); err != nil {
			return nil, err
		}
	}
	msg, err := OrderType.New(map[string]interface{}{
		"maker":      p.Maker,
		"isBuy":      p.IsBuy,
		"limitPrice": p.LimitPrice,
		"amount":     p.Amount,
		"salt":       salt,
		"instrument": big.NewInt(p.Instrument),
		"timestamp":  big.NewInt(p.Timestamp),
	})
	if err != nil {
		return nil, errors.Wrap(err, "build order message")
	}
	domain, err := Domain(env)
	if err != nil {
		return nil, err
	}
	digest, err := eip712.SignableHash(msg, domain)
	if err != nil {
		return nil, errors.Wrap(err, "hash order")
	}
	sig, err := signHash(digest.Bytes(), key)
	if err != nil {
		return nil, err
	}
	return &SignedOrder{Salt: salt, Signature: sig, ID: digest.Hex()}, nil
}

// SignedWithdraw is a signed withdrawal payload.
type SignedWithdraw struct {
	Salt      *big.Int
	Signature string
}

// WithdrawParams are the signable withdrawal fields. Data defaults to the
// zero word when nil.
type WithdrawParams struct {
	Collateral string
	To         string
	Amount     *big.Int
	Data       []byte
}

// SignWithdraw signs a withdrawal with the account key itself, not the
// signing key.
func SignWithdraw(env types.Env, key *ecdsa.PrivateKey, p WithdrawParams, salt *big.Int) (*SignedWithdraw, error) {
	if salt == nil {
		var err error
		if salt, err = NewSalt(); err != nil {
			return nil, err
		}
	}
	data := p.Data
	if data == nil {
		data = make([]byte, 32)
	}
	msg, err := WithdrawType.New(map[string]interface{}{
		"collateral": p.Collateral,
		"to":         p.To,
		"amount":     p.Amount,
		"salt":       salt,
		"data":       data,
	})
	if err != nil {
		return nil, errors.Wrap(err, "build withdraw message")
	}
	domain, err := Domain(env)
	if err != nil {
		return nil, err
	}
	digest, err := eip712.SignableHash(msg, domain)
	if err != nil {
		return nil, errors.Wrap(err, "hash withdraw")
	}
	sig, err := signHash(digest.Bytes(), key)
	if err != nil {
		return nil, err
	}
	return &SignedWithdraw{Salt: salt, Signature: sig}, nil
}

// SignRegister produces both halves of a key registration: the account signs
// the Register message and the new signing key counter-signs a SignKey
// message naming the account.
func SignRegister(env types.Env, accountKey, signingKey *ecdsa.PrivateKey, expiry int64) (*types.RegisterRequest, error) {
	account := crypto.PubkeyToAddress(accountKey.PublicKey)
	keyAddr := crypto.PubkeyToAddress(signingKey.PublicKey)

	domain, err := Domain(env)
	if err != nil {
		return nil, err
	}

	register, err := RegisterType.New(map[string]interface{}{
		"key":    keyAddr,
		"expiry": big.NewInt(expiry),
	})
	if err != nil {
		return nil, errors.Wrap(err, "build register message")
	}
	registerDigest, err := eip712.SignableHash(register, domain)
	if err != nil {
		return nil, errors.Wrap(err, "hash register")
	}
	accountSig, err := signHash(registerDigest.Bytes(), accountKey)
	if err != nil {
		return nil, err
	}

	signKey, err := SignKeyType.New(map[string]interface{}{
		"account": account,
	})
	if err != nil {
		return nil, errors.Wrap(err, "build signkey message")
	}
	signKeyDigest, err := eip712.SignableHash(signKey, domain)
	if err != nil {
		return nil, errors.Wrap(err, "hash signkey")
	}
	keySig, err := signHash(signKeyDigest.Bytes(), signingKey)
	if err != nil {
		return nil, err
	}

	return &types.RegisterRequest{
		Account:             account.Hex(),
		SigningKey:          keyAddr.Hex(),
		Expiry:              big.NewInt(expiry).String(),
		AccountSignature:    accountSig,
		SigningKeySignature: keySig,
	}, nil
}
