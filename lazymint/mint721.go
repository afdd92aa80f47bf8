package lazymint

import (
	"bytes"
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

var _ MintData = (*Mint721Data)(nil)

// Mint721Data is the lazy mint voucher of an ERC-721 token.
type Mint721Data struct {
	_          struct{}         `cbor:",toarray"`
	Version    uint64           `json:"version,omitempty"`
	TokenID    *big.Int         `json:"tokenId"`    // ID of the token to be minted
	TokenURI   string           `json:"tokenURI"`   // URI of the token metadata
	Creators   []common.Address `json:"creators"`   // creators of the token, each must sign the voucher
	Royalties  []Part           `json:"royalties"`  // royalty splits
	Signatures []hexutil.Bytes  `json:"signatures"` // signatures of the creators, in the order of Creators; not part of the signed data
}

func (d *Mint721Data) PrimaryType() string {
	return Mint721TypeName
}

func (d *Mint721Data) Types() apitypes.Types {
	return apitypes.Types{
		Mint721TypeName: {
			{Name: "tokenId", Type: "uint256"},
			{Name: "tokenURI", Type: "string"},
			{Name: "creators", Type: "address[]"},
			{Name: "royalties", Type: "Part[]"},
		},
		PartTypeName: partType,
	}
}

func (d *Mint721Data) TypedMessage() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"tokenId":   eip712.Uint256(d.TokenID),
		"tokenURI":  d.TokenURI,
		"creators":  addressesTypedValue(d.Creators),
		"royalties": partsTypedValue(d.Royalties),
	}
}

// Digest returns the EIP-712 digest the creators sign for the contract of the domain.
func (d *Mint721Data) Digest(domain eip712.Domain) ([]byte, error) {
	return eip712.Digest(domain, d)
}

func (d *Mint721Data) IsValid() error {
	if d == nil || d.TokenID == nil {
		return ErrTokenIDMissing
	}
	if !validateUint256(d.TokenID) {
		return ErrTokenIDOutOfRange
	}
	if err := validateCreators(d.Creators); err != nil {
		return err
	}
	return validateRoyalties(d.Royalties)
}

func (d *Mint721Data) GetCreators() []common.Address {
	return d.Creators
}

func (d *Mint721Data) GetSignatures() []hexutil.Bytes {
	return d.Signatures
}

// VerifyCreators checks that every creator except the sender has signed the voucher.
func (d *Mint721Data) VerifyCreators(domain eip712.Domain, sender common.Address) error {
	return verifyCreators(d, domain, sender)
}

// SignCreator signs the voucher and stores the signature at the signer's
// position in the creators list.
func (d *Mint721Data) SignCreator(signer crypto.Signer, domain eip712.Domain) error {
	sig, idx, err := signCreator(d, signer, domain)
	if err != nil {
		return err
	}
	d.Signatures = placeSignature(d.Signatures, len(d.Creators), idx, sig)
	return nil
}

// SigBytes serializes all fields except for the signatures.
func (d Mint721Data) SigBytes() ([]byte, error) {
	d.Signatures = nil
	return d.MarshalCBOR()
}

// ID returns identifier of the voucher, it doesn't depend on the signatures.
func (d *Mint721Data) ID() ([]byte, error) {
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

func (d *Mint721Data) GetVersion() uint64 {
	if d != nil && d.Version > 0 {
		return d.Version
	}
	return 1
}

func (d *Mint721Data) Copy() *Mint721Data {
	if d == nil {
		return nil
	}
	return &Mint721Data{
		Version:    d.Version,
		TokenID:    copyBigInt(d.TokenID),
		TokenURI:   strings.Clone(d.TokenURI),
		Creators:   slices.Clone(d.Creators),
		Royalties:  slices.Clone(d.Royalties),
		Signatures: copySignatures(d.Signatures),
	}
}

func (d Mint721Data) MarshalCBOR() ([]byte, error) {
	type alias Mint721Data
	if d.Version == 0 {
		d.Version = d.GetVersion()
	}
	return cbor.MarshalTaggedValue(Mint721Tag, (*alias)(&d))
}

func (d *Mint721Data) UnmarshalCBOR(data []byte) error {
	type alias Mint721Data
	if err := cbor.UnmarshalTaggedValue(Mint721Tag, data, (*alias)(d)); err != nil {
		return fmt.Errorf("decoding ERC-721 voucher: %w", err)
	}
	return ensureVersion(d.Version, 1)
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func copySignatures(sigs []hexutil.Bytes) []hexutil.Bytes {
	if sigs == nil {
		return nil
	}
	r := make([]hexutil.Bytes, len(sigs))
	for i, s := range sigs {
		r[i] = bytes.Clone(s)
	}
	return r
}

func ensureVersion(got, expected uint64) error {
	if got != expected {
		return fmt.Errorf("invalid version %d, expected %d", got, expected)
	}
	return nil
}
