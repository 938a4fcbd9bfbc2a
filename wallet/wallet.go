// Package wallet is the high level facade composing mnemonic handling, key
// derivation, address encoding and the encrypted keystore into the small
// surface a host application calls.  Secret material only crosses this
// boundary inside a Session or an explicit export.
package wallet

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/walletkit/wallet-core/chainutil"
	"github.com/walletkit/wallet-core/config"
	"github.com/walletkit/wallet-core/keystore"
	"github.com/walletkit/wallet-core/keystore/zero"
	"github.com/walletkit/wallet-core/logging"
	"github.com/walletkit/wallet-core/wallet/db"
)

// Manager owns the keystore store and the cache of unlocked sessions.
type Manager struct {
	store      db.DB
	kdfRounds  int
	sessionTTL time.Duration
	sessions   *cache.Cache
}

// ImportResult reports a successful wallet import or creation.
type ImportResult struct {
	KeystoreID string
	Address    string
	Mnemonic   string // set only when the manager generated the phrase
}

// NewManager wires a Manager on top of the given store using the loaded
// configuration for KDF cost and session lifetime.
func NewManager(store db.DB, cfg *config.Config) *Manager {
	ttl := time.Duration(cfg.SessionTTLSeconds) * time.Second
	sessions := cache.New(ttl, ttl/2)
	sessions.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Release()
		}
	})
	return &Manager{
		store:      store,
		kdfRounds:  cfg.KDFRounds,
		sessionTTL: ttl,
		sessions:   sessions,
	}
}

// resolveParams validates the string triple coming across the API boundary.
// Anything unrecognized fails here with ErrInvalidParameters, before any
// key material is touched.
func resolveParams(chainType, network, segWit string) (*config.Params, config.SegWit, error) {
	chain, err := config.ParseChainType(chainType)
	if err != nil {
		return nil, "", errors.Wrap(ErrInvalidParameters, err.Error())
	}
	net, err := config.ParseNetwork(network)
	if err != nil {
		return nil, "", errors.Wrap(ErrInvalidParameters, err.Error())
	}
	flag, err := config.ParseSegWit(segWit)
	if err != nil {
		return nil, "", errors.Wrap(ErrInvalidParameters, err.Error())
	}
	params, err := config.ChainParams(chain, net)
	if err != nil {
		return nil, "", errors.Wrap(ErrInvalidParameters, err.Error())
	}
	return params, flag, nil
}

// ImportWallet derives the primary address for the mnemonic under the
// chain's default path, seals both the primary private key and the phrase
// under the password, and persists the container.  Nothing is written if
// any step fails.
func (m *Manager) ImportWallet(name, mnemonic, password, chainType, network, segWit string) (*ImportResult, error) {
	return m.importWallet(name, mnemonic, password, chainType, network, segWit, keystore.SourceMnemonic)
}

// CreateWallet generates a fresh mnemonic and imports it.  The phrase is
// returned exactly once for the caller to back up.
func (m *Manager) CreateWallet(name, password, chainType, network, segWit string) (*ImportResult, error) {
	mnemonic, err := keystore.NewMnemonic(keystore.DefaultEntropyBits)
	if err != nil {
		return nil, err
	}
	res, err := m.importWallet(name, mnemonic, password, chainType, network, segWit, keystore.SourceNewIdentity)
	if err != nil {
		return nil, err
	}
	res.Mnemonic = mnemonic
	return res, nil
}

func (m *Manager) importWallet(name, mnemonic, password, chainType, network, segWit string, source keystore.Source) (*ImportResult, error) {
	params, flag, err := resolveParams(chainType, network, segWit)
	if err != nil {
		return nil, err
	}
	mnemonic = keystore.NormalizeMnemonic(mnemonic)
	if err := keystore.ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}

	seed, err := keystore.NewSeed(mnemonic, "")
	if err != nil {
		return nil, err
	}
	defer zero.Bytes(seed)

	path := keystore.DefaultPath(params, flag)
	kp, err := keystore.DeriveKeyPair(seed, params, path)
	if err != nil {
		return nil, err
	}
	defer kp.Zero()

	address, err := chainutil.EncodeAddress(kp.PubKey(), params, flag)
	if err != nil {
		return nil, err
	}

	secret := kp.PrivKeyBytes()
	defer zero.Bytes(secret)
	ks, err := keystore.New(secret, []byte(password), m.kdfRounds, address, keystore.Metadata{
		Name:      name,
		ChainType: string(params.Chain),
		Network:   string(params.Net),
		SegWit:    string(flag),
		Source:    source,
	})
	if err != nil {
		return nil, err
	}
	if err := ks.SealMnemonic([]byte(password), mnemonic, path.String()); err != nil {
		return nil, err
	}

	doc, err := ks.Marshal()
	if err != nil {
		return nil, err
	}
	if err := m.store.PutKeystore(ks.ID, doc); err != nil {
		logging.CPrint(logging.ERROR, "failed to persist keystore", logging.LogFormat{"id": ks.ID, "err": err})
		return nil, err
	}

	logging.CPrint(logging.INFO, "wallet imported", logging.LogFormat{
		"id":      ks.ID,
		"chain":   params.Chain,
		"network": params.Net,
		"address": address,
	})
	return &ImportResult{KeystoreID: ks.ID, Address: address}, nil
}

// loadKeystore fetches and parses a container.
func (m *Manager) loadKeystore(keystoreID string) (*keystore.Keystore, error) {
	doc, err := m.store.GetKeystore(keystoreID)
	if err != nil {
		return nil, err
	}
	return keystore.Unmarshal(doc)
}

// unlockErr folds every decryption failure into ErrUnlockFailed, keeping
// the real cause in the debug log only.  A caller holding a stolen
// container learns nothing about whether the password or the document was
// at fault.
func unlockErr(keystoreID string, err error) error {
	logging.VPrint(logging.DEBUG, "unlock failed", logging.LogFormat{"id": keystoreID, "cause": err.Error()})
	return ErrUnlockFailed
}

// storeErr reports whether err came from the store itself rather than from
// decryption, so it can pass through untranslated.
func storeErr(err error) bool {
	return errors.Is(err, db.ErrKeystoreNotFound) || errors.Is(err, db.ErrDBClosed)
}

// Unlock decrypts the sealed mnemonic, rebuilds the seed, and caches it in
// a Session for subsequent derivations.  The session expires after the
// configured TTL, wiping the seed.
func (m *Manager) Unlock(keystoreID, password string) (*Session, error) {
	ks, err := m.loadKeystore(keystoreID)
	if err != nil {
		if storeErr(err) {
			return nil, err
		}
		return nil, unlockErr(keystoreID, err)
	}

	mnemonic, err := ks.DecryptMnemonic([]byte(password))
	if err != nil {
		return nil, unlockErr(keystoreID, err)
	}
	seed, err := keystore.NewSeed(mnemonic, "")
	if err != nil {
		return nil, unlockErr(keystoreID, err)
	}

	s := &Session{
		id:         uuid.NewString(),
		keystoreID: keystoreID,
		seed:       seed,
	}
	m.sessions.Set(s.id, s, m.sessionTTL)
	logging.CPrint(logging.INFO, "wallet unlocked", logging.LogFormat{"id": keystoreID, "session": s.id})
	return s, nil
}

// Session returns the live session for a handle, if it has not expired.
func (m *Manager) Session(sessionID string) (*Session, error) {
	v, ok := m.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return v.(*Session), nil
}

// ReleaseSession wipes and drops a session.  Unknown handles are ignored.
func (m *Manager) ReleaseSession(sessionID string) {
	// Delete fires the eviction hook, which wipes the seed.
	m.sessions.Delete(sessionID)
}

// DeriveAddress derives the address at path for the given chain from the
// session's seed.  An empty path selects the chain's default path for the
// segwit flag.
func (m *Manager) DeriveAddress(s *Session, chainType, network, path, segWit string) (string, error) {
	params, flag, err := resolveParams(chainType, network, segWit)
	if err != nil {
		return "", err
	}
	var dp keystore.DerivationPath
	if path == "" {
		dp = keystore.DefaultPath(params, flag)
	} else {
		dp, err = keystore.ParseDerivationPath(path)
		if err != nil {
			return "", err
		}
	}

	var address string
	err = s.withSeed(func(seed []byte) error {
		kp, err := keystore.DeriveKeyPair(seed, params, dp)
		if err != nil {
			return err
		}
		defer kp.Zero()
		address, err = chainutil.EncodeAddress(kp.PubKey(), params, flag)
		return err
	})
	if err != nil {
		return "", err
	}
	return address, nil
}

// OwnsAddress reports whether the address is the one the session's seed
// produces at path for the given chain.
func (m *Manager) OwnsAddress(s *Session, chainType, network, path, segWit, address string) (bool, error) {
	derived, err := m.DeriveAddress(s, chainType, network, path, segWit)
	if err != nil {
		return false, err
	}
	return derived == address, nil
}

// ExportPrivateKey decrypts and returns the sealed primary private key as
// hex.  Failures are reported uniformly through ErrUnlockFailed.
func (m *Manager) ExportPrivateKey(keystoreID, password string) (string, error) {
	ks, err := m.loadKeystore(keystoreID)
	if err != nil {
		if storeErr(err) {
			return "", err
		}
		return "", unlockErr(keystoreID, err)
	}
	secret, err := ks.Decrypt([]byte(password))
	if err != nil {
		return "", unlockErr(keystoreID, err)
	}
	defer zero.Bytes(secret)
	return hex.EncodeToString(secret), nil
}

// ExportMnemonic decrypts and returns the sealed recovery phrase.
func (m *Manager) ExportMnemonic(keystoreID, password string) (string, error) {
	ks, err := m.loadKeystore(keystoreID)
	if err != nil {
		if storeErr(err) {
			return "", err
		}
		return "", unlockErr(keystoreID, err)
	}
	mnemonic, err := ks.DecryptMnemonic([]byte(password))
	if err != nil {
		return "", unlockErr(keystoreID, err)
	}
	return mnemonic, nil
}

// KeystoreAddress returns the primary address recorded in a container.
// The address is public metadata; no password is required.
func (m *Manager) KeystoreAddress(keystoreID string) (string, error) {
	ks, err := m.loadKeystore(keystoreID)
	if err != nil {
		return "", err
	}
	return ks.Address, nil
}

// ListWallets returns the ids of all stored containers.
func (m *Manager) ListWallets() ([]string, error) {
	return m.store.ListKeystoreIDs()
}

// DeleteWallet removes a container after the password proves ownership.
func (m *Manager) DeleteWallet(keystoreID, password string) error {
	ks, err := m.loadKeystore(keystoreID)
	if err != nil {
		if storeErr(err) {
			return err
		}
		return unlockErr(keystoreID, err)
	}
	if !ks.VerifyPassword([]byte(password)) {
		return unlockErr(keystoreID, errors.New("password verification failed"))
	}
	if err := m.store.DeleteKeystore(keystoreID); err != nil {
		return err
	}
	logging.CPrint(logging.INFO, "wallet deleted", logging.LogFormat{"id": keystoreID})
	return nil
}

// Close wipes all cached sessions and closes the store.
func (m *Manager) Close() error {
	// Flush skips the eviction hook, so delete one by one to wipe seeds.
	for id := range m.sessions.Items() {
		m.sessions.Delete(id)
	}
	return m.store.Close()
}
