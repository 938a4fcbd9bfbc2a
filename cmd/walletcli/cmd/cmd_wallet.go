package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/walletkit/wallet-core/logging"
)

var createWalletCmd = &cobra.Command{
	Use:   "createwallet <password> [chain=?] [network=?] [segwit=?] [name=?]",
	Short: "Creates a new wallet and returns its id, address and mnemonic.",
	Long: "Creates a new wallet and returns its id, address and mnemonic.\n" +
		"\nArguments:\n" +
		"  <password>  used to protect the keystore\n" +
		"  [chain]     optional, BTC, LTC, BCH or ETHEREUM, default BTC\n" +
		"  [network]   optional, MAINNET or TESTNET, default MAINNET\n" +
		"  [segwit]    optional, NONE, P2WPKH or VERSION_0, default NONE\n" +
		"  [name]      optional wallet label\n",
	Example: `  createwallet 123456 chain=BTC segwit=VERSION_0 name='daily spending'`,
	Args:    cobra.RangeArgs(1, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel := defaultSelector()
		name := ""
		for _, arg := range args[1:] {
			key, value, err := parseCommandVar(arg)
			if err != nil {
				return err
			}
			if sel.apply(key, value) {
				continue
			}
			if key == "name" {
				name = value
				continue
			}
			return errorUnknownCommandParam(key)
		}

		logging.VPrint(logging.INFO, "createwallet called", logging.LogFormat{
			"chain":   sel.chain,
			"network": sel.network,
			"segwit":  sel.segWit,
		})

		res, err := manager.CreateWallet(name, args[0], sel.chain, sel.network, sel.segWit)
		if err != nil {
			return err
		}
		return printout(map[string]string{
			"walletId": res.KeystoreID,
			"address":  res.Address,
			"mnemonic": res.Mnemonic,
		})
	},
}

var importWalletCmd = &cobra.Command{
	Use:   "importwallet <mnemonic> <password> [chain=?] [network=?] [segwit=?] [name=?]",
	Short: "Imports a wallet from a recovery phrase.",
	Long: "Imports a wallet from a recovery phrase.\n" +
		"\nArguments:\n" +
		"  <mnemonic>  the recovery phrase, quoted\n" +
		"  <password>  used to protect the keystore\n" +
		"  [chain]     optional, BTC, LTC, BCH or ETHEREUM, default BTC\n" +
		"  [network]   optional, MAINNET or TESTNET, default MAINNET\n" +
		"  [segwit]    optional, NONE, P2WPKH or VERSION_0, default NONE\n" +
		"  [name]      optional wallet label\n",
	Example: `  importwallet 'inject kidney empty canal ...' 123456 chain=ETHEREUM`,
	Args:    cobra.RangeArgs(2, 6),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel := defaultSelector()
		name := ""
		for _, arg := range args[2:] {
			key, value, err := parseCommandVar(arg)
			if err != nil {
				return err
			}
			if sel.apply(key, value) {
				continue
			}
			if key == "name" {
				name = value
				continue
			}
			return errorUnknownCommandParam(key)
		}

		logging.VPrint(logging.INFO, "importwallet called", logging.LogFormat{
			"chain":   sel.chain,
			"network": sel.network,
			"segwit":  sel.segWit,
		})

		res, err := manager.ImportWallet(name, args[0], args[1], sel.chain, sel.network, sel.segWit)
		if err != nil {
			return err
		}
		return printout(map[string]string{
			"walletId": res.KeystoreID,
			"address":  res.Address,
		})
	},
}

var listWalletsCmd = &cobra.Command{
	Use:   "listwallets",
	Short: "Lists all stored wallets with their primary addresses.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := manager.ListWallets()
		if err != nil {
			return err
		}
		type entry struct {
			WalletID string `json:"walletId"`
			Address  string `json:"address"`
		}
		entries := make([]entry, 0, len(ids))
		for _, id := range ids {
			addr, err := manager.KeystoreAddress(id)
			if err != nil {
				return err
			}
			entries = append(entries, entry{WalletID: id, Address: addr})
		}
		return printout(entries)
	},
}

var deriveAddressCmd = &cobra.Command{
	Use:   "deriveaddress <walletId> <password> [chain=?] [network=?] [path=?] [segwit=?]",
	Short: "Derives an address from an unlocked wallet.",
	Long: "Derives an address from an unlocked wallet.\n" +
		"\nArguments:\n" +
		"  <walletId>  id returned by createwallet or listwallets\n" +
		"  <password>  the keystore password\n" +
		"  [chain]     optional, default BTC\n" +
		"  [network]   optional, default MAINNET\n" +
		"  [path]      optional derivation path, default is the chain's standard path\n" +
		"  [segwit]    optional, default NONE\n",
	Example: `  deriveaddress 3f0a... 123456 path=m/44'/0'/0'/0/7`,
	Args:    cobra.RangeArgs(2, 6),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel := defaultSelector()
		path := ""
		for _, arg := range args[2:] {
			key, value, err := parseCommandVar(arg)
			if err != nil {
				return err
			}
			if sel.apply(key, value) {
				continue
			}
			if key == "path" {
				path = value
				continue
			}
			return errorUnknownCommandParam(key)
		}

		logging.VPrint(logging.INFO, "deriveaddress called", logging.LogFormat{
			"wallet": args[0],
			"chain":  sel.chain,
			"path":   path,
		})

		s, err := manager.Unlock(args[0], args[1])
		if err != nil {
			return err
		}
		defer manager.ReleaseSession(s.ID())

		addr, err := manager.DeriveAddress(s, sel.chain, sel.network, path, sel.segWit)
		if err != nil {
			return err
		}
		return printout(map[string]string{"address": addr})
	},
}

var exportMnemonicCmd = &cobra.Command{
	Use:   "exportmnemonic <walletId> <password>",
	Short: "Reveals the wallet's recovery phrase.",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			logging.VPrint(logging.ERROR, LogMsgIncorrectArgsNumber, logging.LogFormat{"actual": len(args)})
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		mnemonic, err := manager.ExportMnemonic(args[0], args[1])
		if err != nil {
			return err
		}
		return printout(map[string]string{"mnemonic": mnemonic})
	},
}

var exportPrivateKeyCmd = &cobra.Command{
	Use:   "exportprivatekey <walletId> <password>",
	Short: "Reveals the wallet's primary private key as hex.",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			logging.VPrint(logging.ERROR, LogMsgIncorrectArgsNumber, logging.LogFormat{"actual": len(args)})
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := manager.ExportPrivateKey(args[0], args[1])
		if err != nil {
			return err
		}
		return printout(map[string]string{"privateKey": key})
	},
}

var removeWalletCmd = &cobra.Command{
	Use:   "removewallet <walletId> <password>",
	Short: "Deletes a wallet keystore after verifying the password.",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			logging.VPrint(logging.ERROR, LogMsgIncorrectArgsNumber, logging.LogFormat{"actual": len(args)})
			return err
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := manager.DeleteWallet(args[0], args[1]); err != nil {
			return err
		}
		return printout(map[string]bool{"ok": true})
	},
}

var validateAddressCmd = &cobra.Command{
	Use:   "validateaddress <walletId> <password> <address> [chain=?] [network=?] [path=?] [segwit=?]",
	Short: "Checks whether an address belongs to a wallet.",
	Args:  cobra.RangeArgs(3, 7),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel := defaultSelector()
		path := ""
		for _, arg := range args[3:] {
			key, value, err := parseCommandVar(arg)
			if err != nil {
				return err
			}
			if sel.apply(key, value) {
				continue
			}
			if key == "path" {
				path = value
				continue
			}
			return errorUnknownCommandParam(key)
		}

		s, err := manager.Unlock(args[0], args[1])
		if err != nil {
			return err
		}
		defer manager.ReleaseSession(s.ID())

		owns, err := manager.OwnsAddress(s, sel.chain, sel.network, path, sel.segWit, strings.TrimSpace(args[2]))
		if err != nil {
			return err
		}
		return printout(map[string]bool{"owned": owns})
	},
}
