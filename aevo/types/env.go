// Package types defines the environments, addresses and payload shapes of
// the Aevo exchange API.
package types

import (
	"fmt"
	"math/big"
	"strings"
)

// Env selects the exchange deployment.
type Env string

const (
	Testnet Env = "testnet"
	Mainnet Env = "mainnet"
)

// ParseEnv validates an environment name, ignoring case.
func ParseEnv(s string) (Env, error) {
	switch env := Env(strings.ToLower(s)); env {
	case Testnet, Mainnet:
		return env, nil
	default:
		return "", fmt.Errorf("env must be either 'testnet' or 'mainnet', got %q", s)
	}
}

// SigningDomain identifies the deployment every signature is bound to.
type SigningDomain struct {
	Name    string
	Version string
	ChainID *big.Int
}

// EnvConfig carries the endpoints and signing domain of one deployment.
type EnvConfig struct {
	RestURL       string
	WSURL         string
	SigningDomain SigningDomain
}

// Addresses lists the bridge and collateral contracts of one deployment.
type Addresses struct {
	L1Bridge        string
	L1USDC          string
	L2WithdrawProxy string
	L2USDC          string
}

var envConfigs = map[Env]EnvConfig{
	Testnet: {
		RestURL: "https://api-testnet.aevo.xyz",
		WSURL:   "wss://ws-testnet.aevo.xyz",
		SigningDomain: SigningDomain{
			Name:    "Aevo Testnet",
			Version: "1",
			ChainID: big.NewInt(11155111),
		},
	},
	Mainnet: {
		RestURL: "https://api.aevo.xyz",
		WSURL:   "wss://ws.aevo.xyz",
		SigningDomain: SigningDomain{
			Name:    "Aevo Mainnet",
			Version: "1",
			ChainID: big.NewInt(1),
		},
	},
}

var envAddresses = map[Env]Addresses{
	Testnet: {
		L1Bridge:        "0xb459023ECAf4ee7E55BEC136e592d2B7afF482E2",
		L1USDC:          "0xcC3e3DBb31a7410e1dc5156593CdBFA0616BB309",
		L2WithdrawProxy: "0x870b65A0816B9e9A0dFCE08Fd18EFE20f245011f",
		L2USDC:          "0x52623B37Ff81c53567D6D16fd94638734cCDCf27",
	},
	Mainnet: {
		L1Bridge:        "0x4082C9647c098a6493fb499EaE63b5ce3259c574",
		L1USDC:          "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		L2WithdrawProxy: "0x4d44B9AbB13C80d2E376b7C5c982aa972239d845",
		L2USDC:          "0x643aaB1618c600229785A5E06E4b2d13946F7a1A",
	},
}

// Configuration returns the endpoints and signing domain of env.
func (e Env) Configuration() EnvConfig { return envConfigs[e] }

// Contracts returns the bridge and collateral addresses of env.
func (e Env) Contracts() Addresses { return envAddresses[e] }
