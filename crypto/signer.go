package crypto

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// InMemorySecp256k1Signer keeps the private key in memory.
type InMemorySecp256k1Signer struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

// NewInMemorySecp256k1Signer generates new random key.
func NewInMemorySecp256k1Signer() (*InMemorySecp256k1Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	return newSigner(key), nil
}

// NewInMemorySecp256k1SignerFromKey creates signer from 32 byte private key.
func NewInMemorySecp256k1SignerFromKey(privKey []byte) (*InMemorySecp256k1Signer, error) {
	key, err := crypto.ToECDSA(privKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return newSigner(key), nil
}

// NewSignerFromHex creates signer from hex encoded private key, "0x" prefix is optional.
func NewSignerFromHex(privKey string) (*InMemorySecp256k1Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return newSigner(key), nil
}

func newSigner(key *ecdsa.PrivateKey) *InMemorySecp256k1Signer {
	return &InMemorySecp256k1Signer{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

/*
SignHash signs the digest, the "v" of the returned signature is 27 or 28.
*/
func (s *InMemorySecp256k1Signer) SignHash(digest []byte) ([]byte, error) {
	if s == nil || s.key == nil {
		return nil, ErrSignerIsNil
	}
	if len(digest) != DigestLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDigestLength, len(digest))
	}
	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, fmt.Errorf("signing digest: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += recoveryIDOffset
	return sig, nil
}

func (s *InMemorySecp256k1Signer) Address() common.Address {
	return s.addr
}

// PublicKey returns the key in 33 byte compressed form.
func (s *InMemorySecp256k1Signer) PublicKey() []byte {
	return crypto.CompressPubkey(&s.key.PublicKey)
}

// PrivateKey returns the 32 byte private key.
func (s *InMemorySecp256k1Signer) PrivateKey() []byte {
	return crypto.FromECDSA(s.key)
}

func (s *InMemorySecp256k1Signer) Verifier() Verifier {
	return NewVerifier(s.addr)
}
