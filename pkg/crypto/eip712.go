package crypto

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// EIP191Header prefixes every EIP-712 message hash.
const EIP191Header = "\x19\x01"

// Default domain values of the settlement contracts.
const (
	DefaultDomainName    = "Set Protocol"
	DefaultDomainVersion = "1"
)

// domainSeparatorSchema mirrors the contract's literal, trailing comma included.
const domainSeparatorSchema = "EIP712Domain(" +
	"string name," +
	"string version," +
	")"

// EIP712Domain identifies the protocol a digest is bound to.
type EIP712Domain struct {
	Name    string // Protocol name (e.g., "Set Protocol")
	Version string // Protocol version (e.g., "1")
}

// DefaultDomain returns the domain the settlement contracts are deployed with.
func DefaultDomain() EIP712Domain {
	return EIP712Domain{
		Name:    DefaultDomainName,
		Version: DefaultDomainVersion,
	}
}

var (
	schemaHashOnce = sync.OnceValue(func() common.Hash {
		return crypto.Keccak256Hash([]byte(domainSeparatorSchema))
	})
	defaultHasherOnce = sync.OnceValue(func() *EIP712Hasher {
		return NewEIP712Hasher(DefaultDomain())
	})
)

// DomainSeparatorSchemaHash is keccak256 of the domain schema literal.
func DomainSeparatorSchemaHash() common.Hash {
	return schemaHashOnce()
}

// Hash computes keccak256(schemaHash || keccak256(name) || keccak256(version)).
func (d EIP712Domain) Hash() common.Hash {
	schema := DomainSeparatorSchemaHash()
	return crypto.Keccak256Hash(
		schema[:],
		crypto.Keccak256([]byte(d.Name)),
		crypto.Keccak256([]byte(d.Version)),
	)
}

// DomainHash is the hash of DefaultDomain.
func DomainHash() common.Hash {
	return defaultHasherOnce().DomainHash()
}

// MessageHash binds structHash to DefaultDomain.
func MessageHash(structHash common.Hash) common.Hash {
	return defaultHasherOnce().MessageHash(structHash)
}

// EIP712Hasher turns struct hashes into signable digests for one domain.
// The domain hash is computed once; the hasher is safe for concurrent use.
type EIP712Hasher struct {
	domain     EIP712Domain
	domainHash common.Hash
}

// NewEIP712Hasher creates a hasher for domain
func NewEIP712Hasher(domain EIP712Domain) *EIP712Hasher {
	return &EIP712Hasher{domain: domain, domainHash: domain.Hash()}
}

// Domain returns the domain the hasher was built for.
func (h *EIP712Hasher) Domain() EIP712Domain {
	return h.domain
}

// DomainHash returns the precomputed domain hash.
func (h *EIP712Hasher) DomainHash() common.Hash {
	return h.domainHash
}

// MessageHash returns keccak256("\x19\x01" || domainHash || structHash),
// the digest that is actually signed.
func (h *EIP712Hasher) MessageHash(structHash common.Hash) common.Hash {
	return crypto.Keccak256Hash([]byte(EIP191Header), h.domainHash[:], structHash[:])
}

// HashTypedData hashes standard EIP-712 typed data (eth_signTypedData_v4).
// Used for third-party order formats whose domains follow the standard schema.
func HashTypedData(typedData apitypes.TypedData) (common.Hash, error) {
	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash domain: %w", err)
	}

	typedDataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash message: %w", err)
	}

	// Final digest: keccak256("\x19\x01" || domainSeparator || typedDataHash)
	return crypto.Keccak256Hash([]byte(EIP191Header), domainSeparator, typedDataHash), nil
}
