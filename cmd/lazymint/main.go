package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	configPath string
	flags      config // values of the global flags, applied over the config file
	conf       *config
	log        *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	cmd := &cobra.Command{
		Use:   "lazymint",
		Short: "Sign and verify lazy mint vouchers of ERC-721 and ERC-1155 tokens",
		Long: `Creators of a token sign a voucher (token ID, URI, supply, creators and royalties)
as EIP-712 typed data bound to the lazy mint contract. The token is minted later by
whoever redeems the voucher.

Request files are JSON vouchers, use "-" to read the voucher from stdin.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to the yaml config file")
	pf.Uint64Var(&a.flags.ChainID, "chain-id", 0, "chain ID of the mint contracts")
	pf.StringVar(&a.flags.Contract721, "contract721", "", "address of the ERC-721 lazy mint contract")
	pf.StringVar(&a.flags.Contract1155, "contract1155", "", "address of the ERC-1155 lazy mint contract")
	pf.StringVar(&a.flags.Key, "key", "", "hex encoded private key of the signer")
	pf.StringVar(&a.flags.Keystore, "keystore", "", "keystore file of the signer")
	pf.StringVar(&a.flags.PasswordFile, "password-file", "", "file containing the keystore password")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	for _, std := range []*standard{erc721, erc1155} {
		cmd.AddCommand(
			a.signCmd(std),
			a.recoverCmd(std),
			a.typedDataCmd(std),
		)
	}
	cmd.AddCommand(a.verifyCmd(), a.keygenCmd())
	return cmd
}

// init loads the config file, applies the global flags and sets up the logger.
func (a *app) init(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("chain-id") {
		conf.ChainID = a.flags.ChainID
	}
	if flags.Changed("contract721") {
		conf.Contract721 = a.flags.Contract721
	}
	if flags.Changed("contract1155") {
		conf.Contract1155 = a.flags.Contract1155
	}
	if flags.Changed("keystore") {
		conf.Keystore = a.flags.Keystore
	}
	if flags.Changed("password-file") {
		conf.PasswordFile = a.flags.PasswordFile
	}
	if flags.Changed("log-level") {
		conf.LogLevel = a.flags.LogLevel
	}
	conf.Key = a.flags.Key
	a.conf = conf

	log, err := newLogger(conf.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.log = log
	return nil
}
