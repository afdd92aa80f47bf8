package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alphabill-org/alphabill-lazymint/crypto"
	"github.com/alphabill-org/alphabill-lazymint/eip712"
	"github.com/alphabill-org/alphabill-lazymint/lazymint"
)

// voucher is implemented by both *lazymint.Mint721Data and *lazymint.Mint1155Data.
type voucher interface {
	lazymint.MintData
	SignCreator(signer crypto.Signer, domain eip712.Domain) error
	VerifyCreators(domain eip712.Domain, sender common.Address) error
	ID() ([]byte, error)
}

type standard struct {
	name       string // command suffix
	title      string
	newVoucher func() voucher
	domain     func(c *config) (eip712.Domain, error)
}

var (
	erc721 = &standard{
		name:       "721",
		title:      "ERC-721",
		newVoucher: func() voucher { return &lazymint.Mint721Data{} },
		domain:     (*config).domain721,
	}
	erc1155 = &standard{
		name:       "1155",
		title:      "ERC-1155",
		newVoucher: func() voucher { return &lazymint.Mint1155Data{} },
		domain:     (*config).domain1155,
	}
)

func standardByName(name string) (*standard, error) {
	switch name {
	case erc721.name, erc721.title:
		return erc721, nil
	case erc1155.name, erc1155.title:
		return erc1155, nil
	default:
		return nil, fmt.Errorf("unknown token standard %q, expected 721 or 1155", name)
	}
}

func (a *app) signCmd(std *standard) *cobra.Command {
	var request string
	var attach bool
	cmd := &cobra.Command{
		Use:   "sign" + std.name,
		Short: fmt.Sprintf("Sign %s voucher", std.title),
		Long: fmt.Sprintf(`Signs the %s voucher with the key of a creator and prints the signature.

With --attach the signature is stored into the voucher at the position of the
signer in the creators list and the voucher is printed instead.`, std.title),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, err := std.domain(a.conf)
			if err != nil {
				return err
			}
			signer, err := a.conf.signer()
			if err != nil {
				return err
			}
			v, err := readVoucher(cmd, std, request)
			if err != nil {
				return err
			}

			log := a.log.With(zap.String("standard", std.title), zap.Stringer("signer", signer.Address()))
			if attach {
				if err := v.SignCreator(signer, domain); err != nil {
					return err
				}
				log.Info("voucher signed", voucherID(v))
				return writeJSON(cmd.OutOrStdout(), v)
			}

			sig, err := lazymint.Sign(signer, v, domain)
			if err != nil {
				return err
			}
			log.Info("voucher signed", voucherID(v))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(sig))
			return err
		},
	}
	cmd.Flags().StringVar(&request, "request", "", "voucher JSON file")
	cmd.Flags().BoolVar(&attach, "attach", false, "print the voucher with the signature attached")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func (a *app) recoverCmd(std *standard) *cobra.Command {
	var request, signature string
	cmd := &cobra.Command{
		Use:   "recover" + std.name,
		Short: fmt.Sprintf("Recover the signer of %s voucher", std.title),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, err := std.domain(a.conf)
			if err != nil {
				return err
			}
			sig, err := hexutil.Decode(signature)
			if err != nil {
				return fmt.Errorf("invalid signature: %w", err)
			}
			v, err := readVoucher(cmd, std, request)
			if err != nil {
				return err
			}
			addr, err := lazymint.Recover(v, sig, domain)
			if err != nil {
				return err
			}
			a.log.Debug("signer recovered", zap.String("standard", std.title), zap.Stringer("signer", addr), voucherID(v))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), addr.Hex())
			return err
		},
	}
	cmd.Flags().StringVar(&request, "request", "", "voucher JSON file")
	cmd.Flags().StringVar(&signature, "signature", "", "hex encoded signature")
	_ = cmd.MarkFlagRequired("request")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}

func (a *app) typedDataCmd(std *standard) *cobra.Command {
	var request string
	cmd := &cobra.Command{
		Use:   "typed-data" + std.name,
		Short: fmt.Sprintf("Print EIP-712 typed data of %s voucher", std.title),
		Long: `Prints the voucher as EIP-712 typed data JSON, the payload of the
eth_signTypedData_v4 request of a wallet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, err := std.domain(a.conf)
			if err != nil {
				return err
			}
			v, err := readVoucher(cmd, std, request)
			if err != nil {
				return err
			}
			if err := v.IsValid(); err != nil {
				return fmt.Errorf("invalid %s voucher: %w", std.title, err)
			}
			return writeJSON(cmd.OutOrStdout(), eip712.NewTypedData(domain, v))
		},
	}
	cmd.Flags().StringVar(&request, "request", "", "voucher JSON file")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var request, stdName, sender string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the creator signatures attached to the voucher",
		Long: `Checks that every creator of the voucher, except the sender of the mint
transaction, has signed it. Prints the voucher ID on success.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			std, err := standardByName(stdName)
			if err != nil {
				return err
			}
			domain, err := std.domain(a.conf)
			if err != nil {
				return err
			}
			var senderAddr common.Address
			if sender != "" {
				if !common.IsHexAddress(sender) {
					return fmt.Errorf("invalid sender address %q", sender)
				}
				senderAddr = common.HexToAddress(sender)
			}
			v, err := readVoucher(cmd, std, request)
			if err != nil {
				return err
			}
			if err := v.IsValid(); err != nil {
				return fmt.Errorf("invalid %s voucher: %w", std.title, err)
			}
			if err := v.VerifyCreators(domain, senderAddr); err != nil {
				a.log.Warn("voucher verification failed", zap.String("standard", std.title), voucherID(v), zap.Error(err))
				return err
			}
			id, err := v.ID()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(id))
			return err
		},
	}
	cmd.Flags().StringVar(&request, "request", "", "voucher JSON file")
	cmd.Flags().StringVar(&stdName, "standard", erc721.name, "token standard of the voucher, 721 or 1155")
	cmd.Flags().StringVar(&sender, "sender", "", "address of the mint transaction sender")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func (a *app) keygenCmd() *cobra.Command {
	var out string
	var lightKDF bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new key into keystore file",
		Long: `Generates a new secp256k1 key, encrypts it with the password read from
--password-file and writes the keystore v3 JSON to --out. Prints the address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := a.conf.password()
			if err != nil {
				return err
			}
			signer, err := crypto.NewInMemorySecp256k1Signer()
			if err != nil {
				return err
			}
			keyJSON, err := crypto.EncryptKeystore(signer, password, lightKDF)
			if err != nil {
				return fmt.Errorf("encrypting key: %w", err)
			}
			if err := os.WriteFile(out, keyJSON, 0600); err != nil {
				return fmt.Errorf("writing keystore: %w", err)
			}
			a.log.Info("key generated", zap.Stringer("address", signer.Address()), zap.String("keystore", out))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signer.Address().Hex())
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "keystore file to create")
	cmd.Flags().BoolVar(&lightKDF, "lightkdf", false, "use weaker scrypt parameters (testing only)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// readVoucher decodes the voucher JSON from the file, "-" means stdin.
func readVoucher(cmd *cobra.Command, std *standard, path string) (voucher, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening voucher file: %w", err)
		}
		defer f.Close()
		r = f
	}

	v := std.newVoucher()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("decoding %s voucher: %w", std.title, err)
	}
	return v, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func voucherID(v voucher) zap.Field {
	id, err := v.ID()
	if err != nil {
		return zap.Skip()
	}
	return zap.String("voucher", hexutil.Encode(id))
}
