// Package mobile exposes the wallet facade through a string-only surface
// suitable for FFI binding generators.  Every function takes and returns
// plain strings plus an error; sessions are addressed by opaque handles
// instead of pointers.
package mobile

import (
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/walletkit/wallet-core/config"
	"github.com/walletkit/wallet-core/logging"
	"github.com/walletkit/wallet-core/wallet"
	"github.com/walletkit/wallet-core/wallet/db/ldb"
	"github.com/walletkit/wallet-core/wallet/db/memdb"
)

var (
	mu  sync.Mutex
	mgr *wallet.Manager
)

var errNotInitialized = errors.New("wallet not initialized")

// Init opens the keystore database under dataDir and prepares the wallet.
// It must be called once before any other function.
func Init(dataDir string) error {
	mu.Lock()
	defer mu.Unlock()
	if mgr != nil {
		return errors.New("already initialized")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = cfg.DataDir
	}
	logging.Init(filepath.Join(dataDir, cfg.LogDir), config.DefaultLoggingFilename, cfg.LogLevel, 0)

	store, err := ldb.OpenDB(filepath.Join(dataDir, "keystore"))
	if err != nil {
		return err
	}
	mgr = wallet.NewManager(store, cfg)
	return nil
}

// InitInMemory prepares the wallet with a volatile store.  Intended for
// host-side tests of the binding surface.
func InitInMemory() error {
	mu.Lock()
	defer mu.Unlock()
	if mgr != nil {
		return errors.New("already initialized")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	mgr = wallet.NewManager(memdb.NewMemDB(), cfg)
	return nil
}

// Shutdown wipes all live sessions and closes the database.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()
	if mgr == nil {
		return nil
	}
	err := mgr.Close()
	mgr = nil
	return err
}

func manager() (*wallet.Manager, error) {
	mu.Lock()
	defer mu.Unlock()
	if mgr == nil {
		return nil, errNotInitialized
	}
	return mgr, nil
}

// ImportWallet imports a recovery phrase and returns the primary address.
func ImportWallet(name, mnemonic, password, chainType, network, segWit string) (string, error) {
	m, err := manager()
	if err != nil {
		return "", err
	}
	res, err := m.ImportWallet(name, mnemonic, password, chainType, network, segWit)
	if err != nil {
		return "", err
	}
	return res.Address, nil
}

// CreateWallet generates a wallet and returns its recovery phrase.  The
// phrase is not retrievable again without the password.
func CreateWallet(name, password, chainType, network, segWit string) (string, error) {
	m, err := manager()
	if err != nil {
		return "", err
	}
	res, err := m.CreateWallet(name, password, chainType, network, segWit)
	if err != nil {
		return "", err
	}
	return res.Mnemonic, nil
}

// FindWalletID returns the keystore id whose primary address matches, or an
// empty string when none does.
func FindWalletID(address string) (string, error) {
	m, err := manager()
	if err != nil {
		return "", err
	}
	ids, err := m.ListWallets()
	if err != nil {
		return "", err
	}
	for _, id := range ids {
		exp, err := m.KeystoreAddress(id)
		if err != nil {
			continue
		}
		if exp == address {
			return id, nil
		}
	}
	return "", nil
}

// Unlock opens a session on the keystore and returns its handle.
func Unlock(keystoreID, password string) (string, error) {
	m, err := manager()
	if err != nil {
		return "", err
	}
	s, err := m.Unlock(keystoreID, password)
	if err != nil {
		return "", err
	}
	return s.ID(), nil
}

// DeriveAddress derives an address from an unlocked session.  An empty
// path selects the chain's default derivation path.
func DeriveAddress(sessionID, chainType, network, path, segWit string) (string, error) {
	m, err := manager()
	if err != nil {
		return "", err
	}
	s, err := m.Session(sessionID)
	if err != nil {
		return "", err
	}
	return m.DeriveAddress(s, chainType, network, path, segWit)
}

// ReleaseSession wipes the session's key material.
func ReleaseSession(sessionID string) error {
	m, err := manager()
	if err != nil {
		return err
	}
	m.ReleaseSession(sessionID)
	return nil
}

// ExportPrivateKey returns the sealed primary private key as hex.
func ExportPrivateKey(keystoreID, password string) (string, error) {
	m, err := manager()
	if err != nil {
		return "", err
	}
	return m.ExportPrivateKey(keystoreID, password)
}

// ExportMnemonic returns the sealed recovery phrase.
func ExportMnemonic(keystoreID, password string) (string, error) {
	m, err := manager()
	if err != nil {
		return "", err
	}
	return m.ExportMnemonic(keystoreID, password)
}

// DeleteWallet removes a keystore after password verification.
func DeleteWallet(keystoreID, password string) error {
	m, err := manager()
	if err != nil {
		return err
	}
	return m.DeleteWallet(keystoreID, password)
}
