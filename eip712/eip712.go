/*
Package eip712 assembles EIP-712 typed data and calculates the digest which is
signed by the wallet and recovered by the verifying contract.

The domain always carries chain ID and verifying contract address, so a
signature made for one contract (or chain) does not recover the same signer
on another one.
*/
package eip712

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const DomainTypeName = "EIP712Domain"

// DomainType is the type description of the EIP712Domain used by the mint contracts.
var DomainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

var (
	ErrDomainNameEmpty     = errors.New("domain name is empty")
	ErrDomainVersionEmpty  = errors.New("domain version is empty")
	ErrDomainChainIDUnset  = errors.New("domain chain ID is not set")
	ErrDomainContractUnset = errors.New("domain verifying contract is not set")
)

type (
	Domain struct {
		Name              string         `json:"name"`
		Version           string         `json:"version"`
		ChainID           *big.Int       `json:"chainId"`
		VerifyingContract common.Address `json:"verifyingContract"`
	}

	/*
	   Message is a struct which can be signed as EIP-712 typed data.

	   Types must describe the primary type and all the types it depends on,
	   but not the EIP712Domain.
	*/
	Message interface {
		PrimaryType() string
		Types() apitypes.Types
		TypedMessage() apitypes.TypedDataMessage
	}
)

func NewDomain(name, version string, chainID *big.Int, verifyingContract common.Address) Domain {
	return Domain{
		Name:              name,
		Version:           version,
		ChainID:           chainID,
		VerifyingContract: verifyingContract,
	}
}

func (d Domain) IsValid() error {
	if d.Name == "" {
		return ErrDomainNameEmpty
	}
	if d.Version == "" {
		return ErrDomainVersionEmpty
	}
	if d.ChainID == nil || d.ChainID.Sign() <= 0 {
		return ErrDomainChainIDUnset
	}
	if d.VerifyingContract == (common.Address{}) {
		return ErrDomainContractUnset
	}
	return nil
}

// WithContract returns copy of the domain bound to another verifying contract.
func (d Domain) WithContract(addr common.Address) Domain {
	d.VerifyingContract = addr
	return d
}

// WithChainID returns copy of the domain bound to another chain.
func (d Domain) WithChainID(chainID *big.Int) Domain {
	d.ChainID = chainID
	return d
}

func (d Domain) TypedDataDomain() apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              d.Name,
		Version:           d.Version,
		ChainId:           Uint256(d.ChainID),
		VerifyingContract: d.VerifyingContract.Hex(),
	}
}

// Separator returns the hashStruct of the domain.
func (d Domain) Separator() ([]byte, error) {
	if err := d.IsValid(); err != nil {
		return nil, err
	}
	td := apitypes.TypedData{
		Types:  apitypes.Types{DomainTypeName: DomainType},
		Domain: d.TypedDataDomain(),
	}
	sep, err := td.HashStruct(DomainTypeName, td.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("hashing domain: %w", err)
	}
	return sep, nil
}

// NewTypedData returns the complete EIP-712 typed data (as used by eth_signTypedData_v4).
func NewTypedData(d Domain, msg Message) apitypes.TypedData {
	types := apitypes.Types{DomainTypeName: DomainType}
	for name, fields := range msg.Types() {
		types[name] = fields
	}
	return apitypes.TypedData{
		Types:       types,
		PrimaryType: msg.PrimaryType(),
		Domain:      d.TypedDataDomain(),
		Message:     msg.TypedMessage(),
	}
}

/*
Digest returns keccak256("\x19\x01" || domainSeparator || hashStruct(msg)),
ie the 32 byte value which is signed.
*/
func Digest(d Domain, msg Message) ([]byte, error) {
	if err := d.IsValid(); err != nil {
		return nil, fmt.Errorf("invalid domain: %w", err)
	}
	digest, _, err := apitypes.TypedDataAndHash(NewTypedData(d, msg))
	if err != nil {
		return nil, fmt.Errorf("hashing %s typed data: %w", msg.PrimaryType(), err)
	}
	return digest, nil
}

// Uint256 converts v into the type apitypes expects for uintN values, nil is encoded as zero.
func Uint256(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}
