package crypto

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/google/uuid"
)

/*
NewSignerFromKeystore decrypts Web3 Secret Storage (keystore v3) JSON.
Wrong passphrase is reported as keystore.ErrDecrypt.
*/
func NewSignerFromKeystore(keyJSON []byte, passphrase string) (*InMemorySecp256k1Signer, error) {
	key, err := keystore.DecryptKey(keyJSON, passphrase)
	if err != nil {
		return nil, fmt.Errorf("decrypting keystore: %w", err)
	}
	return newSigner(key.PrivateKey), nil
}

/*
EncryptKeystore exports the signer's key as keystore v3 JSON. When "light" is
true scrypt parameters suitable for tests are used.
*/
func EncryptKeystore(s *InMemorySecp256k1Signer, passphrase string, light bool) ([]byte, error) {
	if s == nil || s.key == nil {
		return nil, ErrSignerIsNil
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generating key id: %w", err)
	}
	scryptN, scryptP := keystore.StandardScryptN, keystore.StandardScryptP
	if light {
		scryptN, scryptP = keystore.LightScryptN, keystore.LightScryptP
	}
	return keystore.EncryptKey(&keystore.Key{Id: id, Address: s.addr, PrivateKey: s.key}, passphrase, scryptN, scryptP)
}
