package lazymint

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/alphabill-org/alphabill-lazymint/eip712"
	"github.com/alphabill-org/alphabill-lazymint/util"
)

const (
	PartTypeName = "Part"

	// royalty values are in basis points, total of all royalties must stay below 100%
	MaxRoyaltiesTotal = 10000
)

var partType = []apitypes.Type{
	{Name: "account", Type: "address"},
	{Name: "value", Type: "uint96"},
}

// Part is a royalty split: account receives value basis points of the sale price.
type Part struct {
	_       struct{}       `cbor:",toarray"`
	Account common.Address `json:"account"`
	Value   uint64         `json:"value"`
}

func NewPart(account common.Address, value uint64) Part {
	return Part{Account: account, Value: value}
}

func (p Part) typedValue() any {
	return map[string]any{
		"account": p.Account.Hex(),
		"value":   eip712.Uint256(new(big.Int).SetUint64(p.Value)),
	}
}

func partsTypedValue(parts []Part) []any {
	return util.TransformSlice(parts, func(p Part) any { return p.typedValue() })
}

func addressesTypedValue(addrs []common.Address) []any {
	return util.TransformSlice(addrs, func(a common.Address) any { return a.Hex() })
}

func validateRoyalties(royalties []Part) error {
	values := make([]uint64, len(royalties))
	for i, r := range royalties {
		if r.Account == (common.Address{}) {
			return fmt.Errorf("%w: royalty %d", ErrRoyaltyRecipientMissing, i)
		}
		if r.Value == 0 {
			return fmt.Errorf("%w: royalty %d", ErrRoyaltyValueZero, i)
		}
		values[i] = r.Value
	}
	total, ok := util.AddUint64(values...)
	if !ok || total >= MaxRoyaltiesTotal {
		return fmt.Errorf("%w: total must be less than %d", ErrRoyaltiesTooHigh, MaxRoyaltiesTotal)
	}
	return nil
}

func validateCreators(creators []common.Address) error {
	if len(creators) == 0 {
		return ErrNoCreators
	}
	for i, c := range creators {
		if c == (common.Address{}) {
			return fmt.Errorf("%w: creator %d", ErrCreatorZeroAddress, i)
		}
	}
	if idx := util.FirstDuplicate(creators); idx >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateCreator, creators[idx])
	}
	return nil
}
