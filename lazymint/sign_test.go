package lazymint

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/alphabill-org/alphabill-lazymint/crypto"
	"github.com/alphabill-org/alphabill-lazymint/eip712"
	"github.com/alphabill-org/alphabill-lazymint/testutils/accounts"
)

var (
	testChainID      = big.NewInt(1337)
	testContract721  = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	testContract1155 = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
)

func testDomain721() eip712.Domain {
	return NewMint721Domain(testChainID, testContract721)
}

func testDomain1155() eip712.Domain {
	return NewMint1155Domain(testChainID, testContract1155)
}

// testRoyalties returns [{accounts[1]: 1}, {accounts[2]: 100}]
func testRoyalties(t *testing.T) []Part {
	return []Part{
		NewPart(accounts.Address(t, 1), 1),
		NewPart(accounts.Address(t, 2), 100),
	}
}

func testMint721(t *testing.T) *Mint721Data {
	return &Mint721Data{
		TokenID:   big.NewInt(1),
		TokenURI:  "testURI",
		Creators:  []common.Address{accounts.Address(t, 1)},
		Royalties: testRoyalties(t),
	}
}

func testMint1155(t *testing.T) *Mint1155Data {
	return &Mint1155Data{
		TokenID:   big.NewInt(1),
		TokenURI:  "testURI",
		Supply:    big.NewInt(10),
		Creators:  []common.Address{accounts.Address(t, 1)},
		Royalties: testRoyalties(t),
	}
}

func Test_Mint721_recoverSigner(t *testing.T) {
	signer := accounts.Signer(t, 1)
	domain := testDomain721()

	t.Run("should recover signer", func(t *testing.T) {
		data := testMint721(t)
		sig, err := Sign721(signer, data, domain)
		require.NoError(t, err)
		require.Len(t, sig, crypto.SignatureLength)

		// the voucher is submitted with the signature attached
		data.Signatures = []hexutil.Bytes{sig}
		addr, err := Recover721(data, sig, domain)
		require.NoError(t, err)
		require.Equal(t, accounts.Address(t, 1), addr)
	})

	t.Run("different token ID", func(t *testing.T) {
		sig, err := Sign721(signer, testMint721(t), domain)
		require.NoError(t, err)

		data := testMint721(t)
		data.TokenID = big.NewInt(2)
		addr, err := Recover721(data, sig, domain)
		require.NoError(t, err)
		require.NotEqual(t, accounts.Address(t, 1), addr)
	})

	t.Run("altered field", func(t *testing.T) {
		sig, err := Sign721(signer, testMint721(t), domain)
		require.NoError(t, err)

		alterations := map[string]func(d *Mint721Data){
			"URI":             func(d *Mint721Data) { d.TokenURI = "testURI2" },
			"creator":         func(d *Mint721Data) { d.Creators[0] = accounts.Address(t, 2) },
			"extra creator":   func(d *Mint721Data) { d.Creators = append(d.Creators, accounts.Address(t, 3)) },
			"royalty account": func(d *Mint721Data) { d.Royalties[1].Account = accounts.Address(t, 3) },
			"royalty value":   func(d *Mint721Data) { d.Royalties[1].Value = 101 },
			"royalty order":   func(d *Mint721Data) { d.Royalties[0], d.Royalties[1] = d.Royalties[1], d.Royalties[0] },
			"no royalties":    func(d *Mint721Data) { d.Royalties = nil },
		}
		for name, alter := range alterations {
			t.Run(name, func(t *testing.T) {
				data := testMint721(t)
				alter(data)
				addr, err := Recover721(data, sig, domain)
				require.NoError(t, err)
				require.NotEqual(t, accounts.Address(t, 1), addr)
			})
		}
	})

	t.Run("other contract", func(t *testing.T) {
		data := testMint721(t)
		sig, err := Sign721(signer, data, domain)
		require.NoError(t, err)

		addr, err := Recover721(data, sig, domain.WithContract(testContract1155))
		require.NoError(t, err)
		require.NotEqual(t, accounts.Address(t, 1), addr)

		addr, err = Recover721(data, sig, domain.WithChainID(big.NewInt(1)))
		require.NoError(t, err)
		require.NotEqual(t, accounts.Address(t, 1), addr)

		// ERC-1155 domain of the same contract
		addr, err = Recover721(data, sig, NewMint1155Domain(testChainID, testContract721))
		require.NoError(t, err)
		require.NotEqual(t, accounts.Address(t, 1), addr)
	})

	t.Run("signatures are not signed", func(t *testing.T) {
		data := testMint721(t)
		sig, err := Sign721(signer, data, domain)
		require.NoError(t, err)

		data.Signatures = []hexutil.Bytes{sig, {1, 2, 3}}
		sig2, err := Sign721(signer, data, domain)
		require.NoError(t, err)
		require.Equal(t, sig, sig2)
	})

	t.Run("signing does not modify the voucher", func(t *testing.T) {
		data := testMint721(t)
		orig := data.Copy()
		_, err := Sign721(signer, data, domain)
		require.NoError(t, err)
		require.Equal(t, orig, data)
	})

	t.Run("malformed signature", func(t *testing.T) {
		data := testMint721(t)
		sig, err := Sign721(signer, data, domain)
		require.NoError(t, err)

		addr, err := Recover721(data, sig[:64], domain)
		require.ErrorIs(t, err, crypto.ErrInvalidSignatureLength)
		require.Equal(t, common.Address{}, addr)

		bad := bytes.Clone(sig)
		bad[64] = 0x42
		_, err = Recover721(data, bad, domain)
		require.ErrorIs(t, err, crypto.ErrInvalidSignature)
	})
}

func Test_Mint1155_recoverSigner(t *testing.T) {
	signer := accounts.Signer(t, 1)
	domain := testDomain1155()

	t.Run("should recover signer", func(t *testing.T) {
		data := testMint1155(t)
		sig, err := Sign1155(signer, data, domain)
		require.NoError(t, err)

		data.Signatures = []hexutil.Bytes{sig}
		addr, err := Recover1155(data, sig, domain)
		require.NoError(t, err)
		require.Equal(t, accounts.Address(t, 1), addr)
	})

	t.Run("different token ID", func(t *testing.T) {
		sig, err := Sign1155(signer, testMint1155(t), domain)
		require.NoError(t, err)

		data := testMint1155(t)
		data.TokenID = big.NewInt(2)
		addr, err := Recover1155(data, sig, domain)
		require.NoError(t, err)
		require.NotEqual(t, accounts.Address(t, 1), addr)
	})

	t.Run("altered field", func(t *testing.T) {
		sig, err := Sign1155(signer, testMint1155(t), domain)
		require.NoError(t, err)

		alterations := map[string]func(d *Mint1155Data){
			"URI":             func(d *Mint1155Data) { d.TokenURI = "" },
			"supply":          func(d *Mint1155Data) { d.Supply = big.NewInt(11) },
			"creator":         func(d *Mint1155Data) { d.Creators[0] = accounts.Address(t, 0) },
			"royalty account": func(d *Mint1155Data) { d.Royalties[0].Account = accounts.Address(t, 2) },
			"royalty value":   func(d *Mint1155Data) { d.Royalties[0].Value = 2 },
		}
		for name, alter := range alterations {
			t.Run(name, func(t *testing.T) {
				data := testMint1155(t)
				alter(data)
				addr, err := Recover1155(data, sig, domain)
				require.NoError(t, err)
				require.NotEqual(t, accounts.Address(t, 1), addr)
			})
		}
	})

	t.Run("other contract", func(t *testing.T) {
		data := testMint1155(t)
		sig, err := Sign1155(signer, data, domain)
		require.NoError(t, err)

		addr, err := Recover1155(data, sig, domain.WithContract(testContract721))
		require.NoError(t, err)
		require.NotEqual(t, accounts.Address(t, 1), addr)
	})

	t.Run("721 and 1155 signatures differ", func(t *testing.T) {
		// same contract, same field values
		d1155 := NewMint1155Domain(testChainID, testContract721)
		sig1155, err := Sign1155(signer, testMint1155(t), d1155)
		require.NoError(t, err)
		sig721, err := Sign721(signer, testMint721(t), testDomain721())
		require.NoError(t, err)
		require.NotEqual(t, sig721, sig1155)
	})
}

func Test_Sign_errors(t *testing.T) {
	t.Run("signer is nil", func(t *testing.T) {
		sig, err := Sign721(nil, testMint721(t), testDomain721())
		require.ErrorIs(t, err, crypto.ErrSignerIsNil)
		require.Nil(t, sig)
	})

	t.Run("invalid voucher", func(t *testing.T) {
		data := testMint721(t)
		data.Creators = nil
		sig, err := Sign721(accounts.Signer(t, 1), data, testDomain721())
		require.ErrorIs(t, err, ErrNoCreators)
		require.EqualError(t, err, `invalid Mint721 voucher: creators list is empty`)
		require.Nil(t, sig)
	})

	t.Run("invalid domain", func(t *testing.T) {
		sig, err := Sign1155(accounts.Signer(t, 1), testMint1155(t), testDomain1155().WithContract(common.Address{}))
		require.ErrorIs(t, err, eip712.ErrDomainContractUnset)
		require.Nil(t, sig)
	})
}

func Test_VerifyCreators(t *testing.T) {
	domain := testDomain721()
	c1, c2 := accounts.Signer(t, 1), accounts.Signer(t, 2)
	sender := accounts.Address(t, 3)

	newData := func() *Mint721Data {
		d := testMint721(t)
		d.Creators = []common.Address{c1.Address(), c2.Address()}
		return d
	}

	t.Run("all creators signed", func(t *testing.T) {
		data := newData()
		require.NoError(t, data.SignCreator(c2, domain))
		require.NoError(t, data.SignCreator(c1, domain))
		require.Len(t, data.Signatures, 2)
		require.NoError(t, data.VerifyCreators(domain, sender))

		// signatures are in the creators order
		addr, err := Recover721(data, data.Signatures[1], domain)
		require.NoError(t, err)
		require.Equal(t, c2.Address(), addr)
	})

	t.Run("sender does not need to sign", func(t *testing.T) {
		data := newData()
		require.NoError(t, data.SignCreator(c2, domain))
		require.Empty(t, data.Signatures[0])
		require.NoError(t, data.VerifyCreators(domain, c1.Address()))

		err := data.VerifyCreators(domain, sender)
		require.ErrorIs(t, err, ErrCreatorSignature)
		require.ErrorIs(t, err, crypto.ErrInvalidSignatureLength)
	})

	t.Run("signature of another creator", func(t *testing.T) {
		data := newData()
		require.NoError(t, data.SignCreator(c1, domain))
		data.Signatures[1] = data.Signatures[0]
		err := data.VerifyCreators(domain, sender)
		require.ErrorIs(t, err, ErrCreatorSignature)
		require.ErrorIs(t, err, crypto.ErrSignerMismatch)
	})

	t.Run("signatures count", func(t *testing.T) {
		data := newData()
		require.NoError(t, data.SignCreator(c1, domain))
		data.Signatures = data.Signatures[:1]
		require.EqualError(t, data.VerifyCreators(domain, sender), `signatures count does not match creators count: 2 creators, 1 signatures`)
	})

	t.Run("extra signatures are dropped", func(t *testing.T) {
		data := newData()
		data.Signatures = []hexutil.Bytes{nil, nil, {1, 2, 3}}
		require.NoError(t, data.SignCreator(c1, domain))
		require.NoError(t, data.SignCreator(c2, domain))
		require.Len(t, data.Signatures, 2)
		require.NoError(t, data.VerifyCreators(domain, sender))

		d1155 := testMint1155(t)
		d1155.Signatures = []hexutil.Bytes{nil, {1}}
		require.NoError(t, d1155.SignCreator(c1, testDomain1155()))
		require.Len(t, d1155.Signatures, 1)
		require.NoError(t, d1155.VerifyCreators(testDomain1155(), sender))
	})

	t.Run("signer is not creator", func(t *testing.T) {
		data := newData()
		err := data.SignCreator(accounts.Signer(t, 0), domain)
		require.ErrorIs(t, err, ErrNotCreator)
		require.Nil(t, data.Signatures)
	})

	t.Run("signed for other contract", func(t *testing.T) {
		data := newData()
		require.NoError(t, data.SignCreator(c1, domain))
		require.NoError(t, data.SignCreator(c2, domain))
		err := data.VerifyCreators(domain.WithContract(testContract1155), sender)
		require.ErrorIs(t, err, crypto.ErrSignerMismatch)
	})

	t.Run("ERC-1155", func(t *testing.T) {
		data := testMint1155(t)
		d1155 := testDomain1155()
		require.NoError(t, data.SignCreator(c1, d1155))
		require.NoError(t, data.VerifyCreators(d1155, sender))
		data.Supply = big.NewInt(1000)
		require.ErrorIs(t, data.VerifyCreators(d1155, sender), crypto.ErrSignerMismatch)
	})
}
