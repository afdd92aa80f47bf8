package lazymint

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alphabill-org/alphabill-lazymint/eip712"
)

var (
	ErrDomainNotConfigured = errors.New("no signing domain configured for the token standard")
	ErrAlreadyMinted       = errors.New("token already minted")
	ErrSupplyExceeded      = errors.New("more than supply")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrVoucherMismatch     = errors.New("token is minted with another voucher")
)

type (
	/*
	   Registry tracks the redeemed vouchers of one ERC-721 and/or one ERC-1155
	   lazy mint contract, the way the contract itself does: a voucher is
	   accepted when all creators (except the sender) have signed it and the
	   token hasn't been minted out yet.

	   Registry is safe for concurrent use.
	*/
	Registry struct {
		conf registryConf

		mu         sync.Mutex
		minted721  map[string]common.Address // token ID -> voucher sender
		minted1155 map[string]*supply1155
	}

	supply1155 struct {
		voucherID []byte
		supply    *big.Int
		minted    *big.Int
	}

	RegistryOption func(c *registryConf)

	registryConf struct {
		domain721  *eip712.Domain
		domain1155 *eip712.Domain
	}
)

// WithMint721Domain configures the signing domain of the ERC-721 contract.
func WithMint721Domain(d eip712.Domain) RegistryOption {
	return func(c *registryConf) {
		c.domain721 = &d
	}
}

// WithMint1155Domain configures the signing domain of the ERC-1155 contract.
func WithMint1155Domain(d eip712.Domain) RegistryOption {
	return func(c *registryConf) {
		c.domain1155 = &d
	}
}

func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	c := registryConf{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.domain721 == nil && c.domain1155 == nil {
		return nil, ErrDomainNotConfigured
	}
	if c.domain721 != nil {
		if err := c.domain721.IsValid(); err != nil {
			return nil, fmt.Errorf("invalid ERC-721 domain: %w", err)
		}
	}
	if c.domain1155 != nil {
		if err := c.domain1155.IsValid(); err != nil {
			return nil, fmt.Errorf("invalid ERC-1155 domain: %w", err)
		}
	}
	return &Registry{
		conf:       c,
		minted721:  make(map[string]common.Address),
		minted1155: make(map[string]*supply1155),
	}, nil
}

/*
Redeem721 accepts the voucher sent by the sender and marks the token as
minted. Returns the ID of the voucher.
*/
func (r *Registry) Redeem721(data *Mint721Data, sender common.Address) ([]byte, error) {
	if r.conf.domain721 == nil {
		return nil, fmt.Errorf("%w: ERC-721", ErrDomainNotConfigured)
	}
	if err := data.IsValid(); err != nil {
		return nil, fmt.Errorf("invalid voucher: %w", err)
	}
	if err := data.VerifyCreators(*r.conf.domain721, sender); err != nil {
		return nil, err
	}
	id, err := data.ID()
	if err != nil {
		return nil, err
	}

	key := data.TokenID.String()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.minted721[key]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyMinted, key)
	}
	r.minted721[key] = sender
	return id, nil
}

/*
Redeem1155 mints amount tokens with the voucher sent by the sender. The first
redeemed voucher of the token ID fixes the supply, further amounts are minted
only with the same voucher (the signatures may differ).
*/
func (r *Registry) Redeem1155(data *Mint1155Data, sender common.Address, amount *big.Int) ([]byte, error) {
	if r.conf.domain1155 == nil {
		return nil, fmt.Errorf("%w: ERC-1155", ErrDomainNotConfigured)
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := data.IsValid(); err != nil {
		return nil, fmt.Errorf("invalid voucher: %w", err)
	}
	if err := data.VerifyCreators(*r.conf.domain1155, sender); err != nil {
		return nil, err
	}
	id, err := data.ID()
	if err != nil {
		return nil, err
	}

	key := data.TokenID.String()
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.minted1155[key]
	if !ok {
		s = &supply1155{voucherID: id, supply: copyBigInt(data.Supply), minted: new(big.Int)}
	} else if !bytes.Equal(s.voucherID, id) {
		return nil, fmt.Errorf("%w: token ID %s", ErrVoucherMismatch, key)
	}
	total := new(big.Int).Add(s.minted, amount)
	if total.Cmp(s.supply) > 0 {
		return nil, fmt.Errorf("%w: minted %s + %s, supply %s", ErrSupplyExceeded, s.minted, amount, s.supply)
	}
	s.minted = total
	r.minted1155[key] = s
	return id, nil
}

// Minted721 returns true and the sender of the voucher when the token has been minted.
func (r *Registry) Minted721(tokenID *big.Int) (common.Address, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sender, ok := r.minted721[tokenID.String()]
	return sender, ok
}

// Minted1155 returns the minted amount and the supply of the token, nils when nothing has been minted.
func (r *Registry) Minted1155(tokenID *big.Int) (minted, supply *big.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.minted1155[tokenID.String()]; ok {
		return copyBigInt(s.minted), copyBigInt(s.supply)
	}
	return nil, nil
}
