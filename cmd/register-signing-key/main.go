package main

import (
	"bufio"
	"context"
	"crypto/ecdsa"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"

	"github.com/aevoxyz/aevo-sdk/aevo/client"
	"github.com/aevoxyz/aevo-sdk/aevo/types"
	"github.com/aevoxyz/aevo-sdk/pkg/config"
	"github.com/aevoxyz/aevo-sdk/pkg/secretstore"
)

// Registers a fresh signing key for a wallet and stores the minted API
// credentials in the local secret store. The wallet key comes either from
// the config or from a mnemonic typed on stdin.
func main() {
	var (
		cfgPath     = flag.String("config", "", "optional yaml config path; env vars used otherwise")
		useMnemonic = flag.Bool("mnemonic", false, "read a BIP-39 mnemonic from stdin instead of the configured wallet key")
		derivePath  = flag.String("path", "m/44'/60'/0'/0/0", "derivation path when -mnemonic is set")
		expiryDays  = flag.Int("expiry-days", 30, "signing key validity in days")
		secretDB    = flag.String("badger", getenv("AEVO_SECRET_DB", "data/secrets.badger"), "badger secrets db path")
		secretKey   = flag.String("secret-key", getenv("AEVO_SECRET_KEY", ""), "badger encryption key (32 bytes, base64 or hex)")
	)
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fatal(err)
	}
	env, err := types.ParseEnv(cfg.Env)
	if err != nil {
		fatal(err)
	}

	walletKey, err := loadWalletKey(cfg, *useMnemonic, *derivePath)
	if err != nil {
		fatal(err)
	}
	account := crypto.PubkeyToAddress(walletKey.PublicKey)

	signingKey, err := crypto.GenerateKey()
	if err != nil {
		fatal(fmt.Errorf("generate signing key: %w", err))
	}
	signingAddr := crypto.PubkeyToAddress(signingKey.PublicKey)

	c, err := client.NewClient(client.Config{Env: env, WalletAddress: account.Hex()})
	if err != nil {
		fatal(err)
	}

	expiry := time.Now().Add(time.Duration(*expiryDays) * 24 * time.Hour).Unix()
	result, err := c.Register(context.Background(), walletKey, signingKey, expiry)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("account:      %s\n", account.Hex())
	fmt.Printf("signing key:  %s\n", signingAddr.Hex())
	fmt.Printf("api key:      %s\n", result.APIKey)

	keyBytes, err := secretstore.ParseKey(*secretKey)
	if err != nil {
		fatal(err)
	}
	store, err := secretstore.Open(secretstore.OpenOptions{
		Path:          *secretDB,
		EncryptionKey: keyBytes,
	})
	if err != nil {
		fatal(fmt.Errorf("open secret store: %w", err))
	}
	defer store.Close()

	keyHex := hexutil.Encode(crypto.FromECDSA(signingKey))
	if err := store.PutSigningKey(account.Hex(), keyHex); err != nil {
		fatal(err)
	}
	if err := store.PutAPICredentials(account.Hex(), result.APIKey, result.APISecret); err != nil {
		fatal(err)
	}
	fmt.Printf("credentials stored in %s\n", *secretDB)
}

func loadWalletKey(cfg *config.Config, useMnemonic bool, path string) (*ecdsa.PrivateKey, error) {
	if !useMnemonic {
		if cfg.WalletPrivateKey == "" {
			return nil, fmt.Errorf("wallet private key not configured (or pass -mnemonic)")
		}
		return crypto.HexToECDSA(strings.TrimPrefix(cfg.WalletPrivateKey, "0x"))
	}

	fmt.Fprintln(os.Stderr, "enter mnemonic (12-24 words), then newline:")
	mn := strings.TrimSpace(readLine())
	if mn == "" {
		return nil, fmt.Errorf("mnemonic is empty")
	}
	wallet, err := hdwallet.NewFromMnemonic(mn)
	if err != nil {
		return nil, fmt.Errorf("parse mnemonic: %w", err)
	}
	derivation, err := hdwallet.ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("parse derivation path: %w", err)
	}
	acct, err := wallet.Derive(derivation, false)
	if err != nil {
		return nil, fmt.Errorf("derive account: %w", err)
	}
	return wallet.PrivateKey(acct)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func readLine() string {
	br := bufio.NewReader(os.Stdin)
	s, _ := br.ReadString('\n')
	return strings.TrimSpace(s)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
