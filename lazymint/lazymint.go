/*
Package lazymint implements the signed "lazy mint" vouchers of ERC-721 and
ERC-1155 tokens.

The creators of a token sign a voucher describing the token to be minted
(token ID, URI, supply, creators and royalty splits) as EIP-712 typed data
bound to the verifying mint contract. The token is minted later, by whoever
redeems the voucher, after the contract has recovered the creators from the
signatures.

Creators and royalties are ordered, changing the order changes the digest.
*/
package lazymint

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/alphabill-org/alphabill-lazymint/cbor"
	"github.com/alphabill-org/alphabill-lazymint/eip712"
)

const (
	Mint721TypeName  = "Mint721"
	Mint1155TypeName = "Mint1155"

	DomainVersion = "1"
)

const (
	_ = iota + cbor.Tag(1000)
	Mint721Tag
	Mint1155Tag
)

var (
	ErrTokenIDMissing          = errors.New("token ID is missing")
	ErrTokenIDOutOfRange       = errors.New("token ID out of uint256 range")
	ErrSupplyOutOfRange        = errors.New("supply must be positive uint256")
	ErrNoCreators              = errors.New("creators list is empty")
	ErrCreatorZeroAddress      = errors.New("creator is zero address")
	ErrDuplicateCreator        = errors.New("duplicate creator")
	ErrRoyaltyRecipientMissing = errors.New("royalty recipient should be present")
	ErrRoyaltyValueZero        = errors.New("royalty value should be positive")
	ErrRoyaltiesTooHigh        = errors.New("royalty total value too high")
	ErrSignaturesCount         = errors.New("signatures count does not match creators count")
	ErrCreatorSignature        = errors.New("invalid creator signature")
	ErrNotCreator              = errors.New("signer is not a creator")
)

// MintData is the part common to the ERC-721 and ERC-1155 vouchers.
type MintData interface {
	eip712.Message
	IsValid() error
	GetCreators() []common.Address
	GetSignatures() []hexutil.Bytes
}

// NewMint721Domain returns the signing domain of the ERC-721 lazy mint contract at the address.
func NewMint721Domain(chainID *big.Int, contract common.Address) eip712.Domain {
	return eip712.NewDomain(Mint721TypeName, DomainVersion, chainID, contract)
}

// NewMint1155Domain returns the signing domain of the ERC-1155 lazy mint contract at the address.
func NewMint1155Domain(chainID *big.Int, contract common.Address) eip712.Domain {
	return eip712.NewDomain(Mint1155TypeName, DomainVersion, chainID, contract)
}

func validateUint256(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.BitLen() <= 256
}
