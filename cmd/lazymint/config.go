package main

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/alphabill-org/alphabill-lazymint/crypto"
	"github.com/alphabill-org/alphabill-lazymint/eip712"
	"github.com/alphabill-org/alphabill-lazymint/lazymint"
)

var (
	errNoKey      = errors.New("signing key is not set, use --key or --keystore")
	errNoPassword = errors.New("keystore password file is not set")
)

// config of the CLI, loaded from the yaml file and overridden by the flags.
type config struct {
	ChainID      uint64 `yaml:"chain_id"`
	Contract721  string `yaml:"contract721"`
	Contract1155 string `yaml:"contract1155"`
	Keystore     string `yaml:"keystore"`
	PasswordFile string `yaml:"password_file"`
	LogLevel     string `yaml:"log_level"`

	// private key is accepted only as a flag
	Key string `yaml:"-"`
}

func defaultConfig() *config {
	return &config{
		ChainID:  1,
		LogLevel: "info",
	}
}

/*
loadConfig reads the yaml config file. Empty path means no config file, the
defaults are returned.
*/
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func (c *config) domain721() (eip712.Domain, error) {
	addr, err := parseContract("contract721", c.Contract721)
	if err != nil {
		return eip712.Domain{}, err
	}
	d := lazymint.NewMint721Domain(new(big.Int).SetUint64(c.ChainID), addr)
	if err := d.IsValid(); err != nil {
		return eip712.Domain{}, fmt.Errorf("invalid ERC-721 domain: %w", err)
	}
	return d, nil
}

func (c *config) domain1155() (eip712.Domain, error) {
	addr, err := parseContract("contract1155", c.Contract1155)
	if err != nil {
		return eip712.Domain{}, err
	}
	d := lazymint.NewMint1155Domain(new(big.Int).SetUint64(c.ChainID), addr)
	if err := d.IsValid(); err != nil {
		return eip712.Domain{}, fmt.Errorf("invalid ERC-1155 domain: %w", err)
	}
	return d, nil
}

func parseContract(name, value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, fmt.Errorf("%s address is not set", name)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", name, value)
	}
	return common.HexToAddress(value), nil
}

// signer returns the signer of the key given as hex or in the keystore file.
func (c *config) signer() (*crypto.InMemorySecp256k1Signer, error) {
	if c.Key != "" {
		return crypto.NewSignerFromHex(c.Key)
	}
	if c.Keystore == "" {
		return nil, errNoKey
	}
	keyJSON, err := os.ReadFile(c.Keystore)
	if err != nil {
		return nil, fmt.Errorf("reading keystore: %w", err)
	}
	password, err := c.password()
	if err != nil {
		return nil, err
	}
	return crypto.NewSignerFromKeystore(keyJSON, password)
}

func (c *config) password() (string, error) {
	if c.PasswordFile == "" {
		return "", errNoPassword
	}
	data, err := os.ReadFile(c.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("reading password file: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
