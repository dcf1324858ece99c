package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DomainName is the struct type name every signing domain carries.
const DomainName = "EIP712Domain"

// DomainConfig selects which EIP712Domain fields a deployment uses. A field
// is part of the domain type only when it is set here; at least one must be.
type DomainConfig struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract string
	Salt              []byte
}

// Domain is the EIP712Domain struct instance mixed into every digest so a
// signature valid in one deployment cannot be replayed in another.
type Domain struct {
	*Struct
}

// MakeDomain builds the domain struct from the supplied fields, in the fixed
// order name, version, chainId, verifyingContract, salt. A config with no
// fields at all returns ErrEmptyDomain.
func MakeDomain(cfg DomainConfig) (*Domain, error) {
	var (
		fields []Field
		values = make(map[string]interface{})
	)
	if cfg.Name != "" {
		fields = append(fields, Field{Name: "name", Type: String()})
		values["name"] = cfg.Name
	}
	if cfg.Version != "" {
		fields = append(fields, Field{Name: "version", Type: String()})
		values["version"] = cfg.Version
	}
	if cfg.ChainID != nil {
		fields = append(fields, Field{Name: "chainId", Type: Uint(256)})
		values["chainId"] = new(big.Int).Set(cfg.ChainID)
	}
	if cfg.VerifyingContract != "" {
		fields = append(fields, Field{Name: "verifyingContract", Type: Address()})
		values["verifyingContract"] = cfg.VerifyingContract
	}
	if len(cfg.Salt) > 0 {
		fields = append(fields, Field{Name: "salt", Type: Bytes(32)})
		values["salt"] = cfg.Salt
	}
	if len(fields) == 0 {
		return nil, ErrEmptyDomain
	}
	typ, err := NewStructType(DomainName, fields...)
	if err != nil {
		return nil, err
	}
	s, err := typ.New(values)
	if err != nil {
		return nil, err
	}
	return &Domain{Struct: s}, nil
}

// SignableHash returns the 32-byte digest a signer commits to:
// keccak256(0x19 0x01 || hashStruct(domain) || hashStruct(msg)). The 2-byte
// prefix is fixed by the signing scheme; a digest without it is rejected by
// every verifier.
func SignableHash(msg *Struct, domain *Domain) (common.Hash, error) {
	if domain == nil || domain.Struct == nil {
		return common.Hash{}, ErrEmptyDomain
	}
	domainHash, err := domain.HashStruct()
	if err != nil {
		return common.Hash{}, err
	}
	msgHash, err := msg.HashStruct()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, domainHash, msgHash), nil
}
