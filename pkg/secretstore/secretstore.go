package secretstore

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Store keeps exchange credentials (signing keys, API key/secret) in a
// Badger database, encrypted at rest when an encryption key is supplied.
// Encryption comes from Badger's own options, not from this wrapper.
type Store struct {
	db *badger.DB
}

type OpenOptions struct {
	Path          string
	EncryptionKey []byte // 32 bytes; nil opens the DB unencrypted
	ReadOnly      bool
}

func Open(opts OpenOptions) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("secretstore: path is required")
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithReadOnly(opts.ReadOnly)
	if len(opts.EncryptionKey) > 0 {
		// Badger requires an index cache for encrypted workloads.
		bopts = bopts.
			WithEncryptionKey(opts.EncryptionKey).
			WithIndexCacheSize(100 << 20)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Credential keys, namespaced per account address.
func signingKeyKey(account string) string { return "signing-key:" + strings.ToLower(account) }

func apiKeyKey(account string) string { return "api-key:" + strings.ToLower(account) }

func apiSecretKey(account string) string { return "api-secret:" + strings.ToLower(account) }

// PutSigningKey stores the hex-encoded signing key registered for account.
func (s *Store) PutSigningKey(account, signingKey string) error {
	return s.SetString(signingKeyKey(account), signingKey)
}

// SigningKey returns the stored signing key for account, if any.
func (s *Store) SigningKey(account string) (string, bool, error) {
	return s.GetString(signingKeyKey(account))
}

// PutAPICredentials stores the API key and secret for account.
func (s *Store) PutAPICredentials(account, apiKey, apiSecret string) error {
	if err := s.SetString(apiKeyKey(account), apiKey); err != nil {
		return err
	}
	return s.SetString(apiSecretKey(account), apiSecret)
}

// APICredentials returns the stored API key/secret pair for account.
func (s *Store) APICredentials(account string) (key, secret string, ok bool, err error) {
	key, ok, err = s.GetString(apiKeyKey(account))
	if err != nil || !ok {
		return "", "", false, err
	}
	secret, ok, err = s.GetString(apiSecretKey(account))
	if err != nil || !ok {
		return "", "", false, err
	}
	return key, secret, true, nil
}

func (s *Store) GetString(key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, errors.New("secretstore: not opened")
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return "", false, errors.New("secretstore: key is empty")
	}
	var (
		out   string
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}
	return out, found, nil
}

func (s *Store) SetString(key, val string) error {
	if s == nil || s.db == nil {
		return errors.New("secretstore: not opened")
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return errors.New("secretstore: key is empty")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, []byte(val))
	})
}

// ParseKey decodes a 32-byte encryption key given as hex (with or without
// 0x) or base64. Empty input returns nil, nil.
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	rawHex := strings.TrimPrefix(raw, "0x")
	if b, err := hex.DecodeString(rawHex); err == nil {
		if len(b) == 32 {
			return b, nil
		}
		return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(b) != 32 {
			return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	return nil, errors.New("key must be base64(32 bytes) or hex(32 bytes)")
}
