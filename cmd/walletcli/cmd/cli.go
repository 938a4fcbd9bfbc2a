package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/walletkit/wallet-core/config"
	"github.com/walletkit/wallet-core/logging"
	"github.com/walletkit/wallet-core/wallet"
	"github.com/walletkit/wallet-core/wallet/db/ldb"
)

var (
	cfg     *config.Config
	manager *wallet.Manager
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   filepath.Base(os.Args[0]),
	Short: "Command line client for the wallet keystore",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initWallet()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if manager != nil {
			manager.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.VPrint(logging.FATAL, "Command failed", logging.LogFormat{"err": err})
	}
}

func initWallet() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	logging.Init(filepath.Join(cfg.DataDir, cfg.LogDir), config.DefaultLoggingFilename, cfg.LogLevel, 0)

	store, err := ldb.OpenDB(filepath.Join(cfg.DataDir, "keystore"))
	if err != nil {
		return err
	}
	manager = wallet.NewManager(store, cfg)
	return nil
}

func init() {
	rootCmd.AddCommand(createWalletCmd)
	rootCmd.AddCommand(importWalletCmd)
	rootCmd.AddCommand(listWalletsCmd)
	rootCmd.AddCommand(deriveAddressCmd)
	rootCmd.AddCommand(exportMnemonicCmd)
	rootCmd.AddCommand(exportPrivateKeyCmd)
	rootCmd.AddCommand(removeWalletCmd)
	rootCmd.AddCommand(validateAddressCmd)
}
