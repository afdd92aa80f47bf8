package crypto

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type addressVerifier struct {
	addr common.Address
}

// NewVerifier returns verifier which accepts signatures recovering to addr.
func NewVerifier(addr common.Address) Verifier {
	return &addressVerifier{addr: addr}
}

// NewVerifierSecp256k1 creates verifier from compressed (33 bytes) or
// uncompressed (65 bytes) public key.
func NewVerifierSecp256k1(pubKey []byte) (Verifier, error) {
	switch len(pubKey) {
	case 33:
		pk, err := crypto.DecompressPubkey(pubKey)
		if err != nil {
			return nil, fmt.Errorf("invalid public key: %w", err)
		}
		return NewVerifier(crypto.PubkeyToAddress(*pk)), nil
	case 65:
		pk, err := crypto.UnmarshalPubkey(pubKey)
		if err != nil {
			return nil, fmt.Errorf("invalid public key: %w", err)
		}
		return NewVerifier(crypto.PubkeyToAddress(*pk)), nil
	default:
		return nil, fmt.Errorf("invalid public key length %d", len(pubKey))
	}
}

func (v *addressVerifier) VerifyHash(sig, digest []byte) error {
	addr, err := RecoverAddress(digest, sig)
	if err != nil {
		return err
	}
	if addr != v.addr {
		return fmt.Errorf("%w: recovered %s, expected %s", ErrSignerMismatch, addr, v.addr)
	}
	return nil
}

func (v *addressVerifier) Address() common.Address {
	return v.addr
}

/*
RecoverAddress returns the address of the account which signed the digest.

Only the signature format is validated - a well formed signature over some
other digest (or made by some other key) recovers to a different address,
it's up to the caller to compare the result with the expected signer.
*/
func RecoverAddress(digest, sig []byte) (common.Address, error) {
	if len(digest) != DigestLength {
		return common.Address{}, fmt.Errorf("%w: %d", ErrInvalidDigestLength, len(digest))
	}
	rsv, err := NormalizeSignature(sig)
	if err != nil {
		return common.Address{}, err
	}
	pk, err := crypto.SigToPub(digest, rsv)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pk), nil
}

/*
NormalizeSignature returns copy of the signature with recovery id (0 or 1) as
the last byte. Signatures with "high s" value are rejected as malleable.
*/
func NormalizeSignature(sig []byte) ([]byte, error) {
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignatureLength, SignatureLength, len(sig))
	}
	rsv := bytes.Clone(sig)
	if rsv[crypto.RecoveryIDOffset] >= recoveryIDOffset {
		rsv[crypto.RecoveryIDOffset] -= recoveryIDOffset
	}
	r := new(big.Int).SetBytes(rsv[:32])
	s := new(big.Int).SetBytes(rsv[32:64])
	if !crypto.ValidateSignatureValues(rsv[crypto.RecoveryIDOffset], r, s, true) {
		return nil, fmt.Errorf("%w: r, s or v value out of range", ErrInvalidSignature)
	}
	return rsv, nil
}
