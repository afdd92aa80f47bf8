/*
Package accounts provides deterministic secp256k1 accounts for tests, the
same ones local development chains (hardhat, anvil) fund at startup.

Use them where a test needs "accounts[i]" of a truffle-style fixture.
*/
package accounts

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alphabill-org/alphabill-lazymint/crypto"
)

var privateKeys = []string{
	"0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"0x5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"0x7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
}

// Count is the number of accounts available.
func Count() int {
	return len(privateKeys)
}

/*
Signer returns signer of the i-th account.
*/
func Signer(t testing.TB, i int) *crypto.InMemorySecp256k1Signer {
	t.Helper()
	if i < 0 || i >= len(privateKeys) {
		t.Fatalf("account index %d out of range [0, %d)", i, len(privateKeys))
	}
	s, err := crypto.NewSignerFromHex(privateKeys[i])
	if err != nil {
		t.Fatal("failed to create signer:", err)
	}
	return s
}

// Address returns address of the i-th account.
func Address(t testing.TB, i int) common.Address {
	t.Helper()
	return Signer(t, i).Address()
}

// Random returns signer with random key.
func Random(t testing.TB) *crypto.InMemorySecp256k1Signer {
	t.Helper()
	s, err := crypto.NewInMemorySecp256k1Signer()
	if err != nil {
		t.Fatal("failed to generate signer:", err)
	}
	return s
}
