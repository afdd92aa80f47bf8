/*
Package hash calculates Keccak-256 digests over CBOR encoded values.

It is used to derive stable identifiers for signed mint vouchers, the digest
that wallets sign is calculated by the eip712 package instead.
*/
package hash

import (
	"hash"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/alphabill-org/alphabill-lazymint/cbor"
)

/*
Hash feeds CBOR encoded values into the underlying hash function. The first
encoding error is remembered and returned by Sum, later writes are no-ops.
*/
type Hash struct {
	h   hash.Hash
	enc *cbor.Encoder
	err error
}

// New creates hash calculator using given hash function.
func New(h hash.Hash) *Hash {
	return &Hash{h: h, enc: cbor.NewEncoder(h)}
}

// NewKeccak256 creates hash calculator using the legacy Keccak-256 (as used by Ethereum).
func NewKeccak256() *Hash {
	return New(crypto.NewKeccakState())
}

// Write serializes argument as CBOR and adds it to the hash.
func (h *Hash) Write(v any) {
	if h.err != nil {
		return
	}
	h.err = h.enc.Encode(v)
}

// Sum returns the digest and the first error that happened while writing
// (in case of non-nil error the digest is not valid).
func (h *Hash) Sum() ([]byte, error) {
	return h.h.Sum(nil), h.err
}

// Keccak256 hashes the CBOR encoding of the values, in order.
func Keccak256(values ...any) ([]byte, error) {
	hasher := NewKeccak256()
	for _, value := range values {
		hasher.Write(value)
	}
	return hasher.Sum()
}
