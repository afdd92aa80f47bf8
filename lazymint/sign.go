package lazymint

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/alphabill-org/alphabill-lazymint/crypto"
	"github.com/alphabill-org/alphabill-lazymint/eip712"
)

/*
Sign721 signs the ERC-721 voucher for the contract of the domain. The voucher
is not modified, ie the signature is not attached to it.
*/
func Sign721(signer crypto.Signer, data *Mint721Data, domain eip712.Domain) ([]byte, error) {
	return Sign(signer, data, domain)
}

/*
Sign1155 signs the ERC-1155 voucher for the contract of the domain. The voucher
is not modified, ie the signature is not attached to it.
*/
func Sign1155(signer crypto.Signer, data *Mint1155Data, domain eip712.Domain) ([]byte, error) {
	return Sign(signer, data, domain)
}

// Recover721 returns the address of the account which signed the ERC-721 voucher.
func Recover721(data *Mint721Data, sig []byte, domain eip712.Domain) (common.Address, error) {
	return Recover(data, sig, domain)
}

// Recover1155 returns the address of the account which signed the ERC-1155 voucher.
func Recover1155(data *Mint1155Data, sig []byte, domain eip712.Domain) (common.Address, error) {
	return Recover(data, sig, domain)
}

func Sign(signer crypto.Signer, data MintData, domain eip712.Domain) ([]byte, error) {
	if signer == nil {
		return nil, crypto.ErrSignerIsNil
	}
	if err := data.IsValid(); err != nil {
		return nil, fmt.Errorf("invalid %s voucher: %w", data.PrimaryType(), err)
	}
	digest, err := eip712.Digest(domain, data)
	if err != nil {
		return nil, err
	}
	sig, err := signer.SignHash(digest)
	if err != nil {
		return nil, fmt.Errorf("signing %s voucher: %w", data.PrimaryType(), err)
	}
	return sig, nil
}

/*
Recover returns the address of the account which signed the voucher for the
contract of the domain.

Signature made for another voucher or domain recovers to some other address,
it is not an error.
*/
func Recover(data MintData, sig []byte, domain eip712.Domain) (common.Address, error) {
	digest, err := eip712.Digest(domain, data)
	if err != nil {
		return common.Address{}, err
	}
	addr, err := crypto.RecoverAddress(digest, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recovering %s signer: %w", data.PrimaryType(), err)
	}
	return addr, nil
}

/*
verifyCreators authorizes the mint: signature i must be made by creator i,
the creator who sends the mint transaction doesn't need to sign.
*/
func verifyCreators(data MintData, domain eip712.Domain, sender common.Address) error {
	creators, sigs := data.GetCreators(), data.GetSignatures()
	if len(creators) != len(sigs) {
		return fmt.Errorf("%w: %d creators, %d signatures", ErrSignaturesCount, len(creators), len(sigs))
	}
	digest, err := eip712.Digest(domain, data)
	if err != nil {
		return err
	}
	for i, creator := range creators {
		if creator == sender {
			continue
		}
		if err := crypto.NewVerifier(creator).VerifyHash(sigs[i], digest); err != nil {
			return fmt.Errorf("%w %d (%s): %w", ErrCreatorSignature, i, creator, err)
		}
	}
	return nil
}

func signCreator(data MintData, signer crypto.Signer, domain eip712.Domain) ([]byte, int, error) {
	if signer == nil {
		return nil, -1, crypto.ErrSignerIsNil
	}
	idx := slices.Index(data.GetCreators(), signer.Address())
	if idx < 0 {
		return nil, -1, fmt.Errorf("%w: %s", ErrNotCreator, signer.Address())
	}
	sig, err := Sign(signer, data, domain)
	if err != nil {
		return nil, -1, err
	}
	return sig, idx, nil
}

// placeSignature returns sigs resized to n items with sig at position idx.
func placeSignature(sigs []hexutil.Bytes, n, idx int, sig []byte) []hexutil.Bytes {
	if len(sigs) < n {
		sigs = append(sigs, make([]hexutil.Bytes, n-len(sigs))...)
	}
	sigs = sigs[:n]
	sigs[idx] = sig
	return sigs
}
