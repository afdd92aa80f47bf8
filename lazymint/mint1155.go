package lazymint

import (
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/alphabill-org/alphabill-lazymint/cbor"
	"github.com/alphabill-org/alphabill-lazymint/crypto"
	"github.com/alphabill-org/alphabill-lazymint/eip712"
	"github.com/alphabill-org/alphabill-lazymint/hash"
)

var _ MintData = (*Mint1155Data)(nil)

// Mint1155Data is the lazy mint voucher of an ERC-1155 token.
type Mint1155Data struct {
	_          struct{}         `cbor:",toarray"`
	Version    uint64           `json:"version,omitempty"`
	TokenID    *big.Int         `json:"tokenId"`    // ID of the token to be minted
	TokenURI   string           `json:"tokenURI"`   // URI of the token metadata
	Supply     *big.Int         `json:"supply"`     // total amount of the token which can be minted with the voucher
	Creators   []common.Address `json:"creators"`   // creators of the token, each must sign the voucher
	Royalties  []Part           `json:"royalties"`  // royalty splits
	Signatures []hexutil.Bytes  `json:"signatures"` // signatures of the creators, in the order of Creators; not part of the signed data
}

func (d *Mint1155Data) PrimaryType() string {
	return Mint1155TypeName
}

/*
Types describes the Mint1155 struct of the contract. NB! the field order of
the signed struct differs from the order of the voucher tuple (supply comes
before the URI).
*/
func (d *Mint1155Data) Types() apitypes.Types {
	return apitypes.Types{
		Mint1155TypeName: {
			{Name: "id", Type: "uint256"},
			{Name: "supply", Type: "uint256"},
			{Name: "tokenURI", Type: "string"},
			{Name: "creators", Type: "address[]"},
			{Name: "royalties", Type: "Part[]"},
		},
		PartTypeName: partType,
	}
}

func (d *Mint1155Data) TypedMessage() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"id":        eip712.Uint256(d.TokenID),
		"supply":    eip712.Uint256(d.Supply),
		"tokenURI":  d.TokenURI,
		"creators":  addressesTypedValue(d.Creators),
		"royalties": partsTypedValue(d.Royalties),
	}
}

// Digest returns the EIP-712 digest the creators sign for the contract of the domain.
func (d *Mint1155Data) Digest(domain eip712.Domain) ([]byte, error) {
	return eip712.Digest(domain, d)
}

func (d *Mint1155Data) IsValid() error {
	if d == nil || d.TokenID == nil {
		return ErrTokenIDMissing
	}
	if !validateUint256(d.TokenID) {
		return ErrTokenIDOutOfRange
	}
	if !validateUint256(d.Supply) || d.Supply.Sign() == 0 {
		return ErrSupplyOutOfRange
	}
	if err := validateCreators(d.Creators); err != nil {
		return err
	}
	return validateRoyalties(d.Royalties)
}

func (d *Mint1155Data) GetCreators() []common.Address {
	return d.Creators
}

func (d *Mint1155Data) GetSignatures() []hexutil.Bytes {
	return d.Signatures
}

// VerifyCreators checks that every creator except the sender has signed the voucher.
func (d *Mint1155Data) VerifyCreators(domain eip712.Domain, sender common.Address) error {
	return verifyCreators(d, domain, sender)
}

// SignCreator signs the voucher and stores the signature at the signer's
// position in the creators list.
func (d *Mint1155Data) SignCreator(signer crypto.Signer, domain eip712.Domain) error {
	sig, idx, err := signCreator(d, signer, domain)
	if err != nil {
		return err
	}
	d.Signatures = placeSignature(d.Signatures, len(d.Creators), idx, sig)
	return nil
}

// SigBytes serializes all fields except for the signatures.
func (d Mint1155Data) SigBytes() ([]byte, error) {
	d.Signatures = nil
	return d.MarshalCBOR()
}

// ID returns identifier of the voucher, it doesn't depend on the signatures.
func (d *Mint1155Data) ID() ([]byte, error) {
	if d == nil {
		return nil, ErrTokenIDMissing
	}
	unsigned := *d
	unsigned.Signatures = nil
	id, err := hash.Keccak256(unsigned)
	if err != nil {
		return nil, fmt.Errorf("encoding voucher: %w", err)
	}
	return id, nil
}

func (d *Mint1155Data) GetVersion() uint64 {
	if d != nil && d.Version > 0 {
		return d.Version
	}
	return 1
}

func (d *Mint1155Data) Copy() *Mint1155Data {
	if d == nil {
		return nil
	}
	return &Mint1155Data{
		Version:    d.Version,
		TokenID:    copyBigInt(d.TokenID),
		TokenURI:   strings.Clone(d.TokenURI),
		Supply:     copyBigInt(d.Supply),
		Creators:   slices.Clone(d.Creators),
		Royalties:  slices.Clone(d.Royalties),
		Signatures: copySignatures(d.Signatures),
	}
}

func (d Mint1155Data) MarshalCBOR() ([]byte, error) {
	type alias Mint1155Data
	if d.Version == 0 {
		d.Version = d.GetVersion()
	}
	return cbor.MarshalTaggedValue(Mint1155Tag, (*alias)(&d))
}

func (d *Mint1155Data) UnmarshalCBOR(data []byte) error {
	type alias Mint1155Data
	if err := cbor.UnmarshalTaggedValue(Mint1155Tag, data, (*alias)(d)); err != nil {
		return fmt.Errorf("decoding ERC-1155 voucher: %w", err)
	}
	return ensureVersion(d.Version, 1)
}
