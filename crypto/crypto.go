/*
Package crypto implements the secp256k1 signing and public key recovery used
by lazy mint vouchers.

Signatures are 65 bytes, r || s || v, where v is 27 or 28 (the form returned by
wallets for eth_signTypedData_v4). Recovery accepts v as 0/1 too.
*/
package crypto

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

const (
	SignatureLength = 65
	DigestLength    = 32

	// added to the recovery id to get the "v" value of the signature
	recoveryIDOffset = 27
)

var (
	ErrSignerIsNil            = errors.New("signer is nil")
	ErrInvalidSignatureLength = errors.New("invalid signature length")
	ErrInvalidDigestLength    = errors.New("invalid digest length")
	ErrInvalidSignature       = errors.New("invalid signature")
	ErrSignerMismatch         = errors.New("signature was not made by the expected signer")
)

type (
	// Signer signs 32 byte digests with a secp256k1 key.
	Signer interface {
		SignHash(digest []byte) ([]byte, error)
		Address() common.Address
	}

	// Verifier checks that a signature over a digest was made by a specific account.
	Verifier interface {
		VerifyHash(sig, digest []byte) error
		Address() common.Address
	}
)
