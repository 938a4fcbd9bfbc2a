package wallet

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletkit/wallet-core/config"
	"github.com/walletkit/wallet-core/keystore"
	"github.com/walletkit/wallet-core/wallet/db"
	"github.com/walletkit/wallet-core/wallet/db/memdb"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	importMnemonic = "inject kidney empty canal shadow pact comfort wife crush horse wife sketch"

	testPassword = "Insecure Pa55w0rd"
)

func testManager(t *testing.T, rounds int) *Manager {
	t.Helper()
	m := NewManager(memdb.NewMemDB(), &config.Config{
		KDFRounds:         rounds,
		SessionTTLSeconds: config.DefaultSessionTTLSeconds,
	})
	t.Cleanup(func() { m.Close() })
	return m
}

func TestImportWalletPersistsAndDerives(t *testing.T) {
	m := testManager(t, config.MinKDFRounds)

	res, err := m.ImportWallet("main-btc", importMnemonic, testPassword, "BTC", "MAINNET", "NONE")
	require.NoError(t, err)
	assert.Equal(t, "12z6UzsA3tjpaeuvA2Zr9jwx19Azz74D6g", res.Address)
	require.NotEmpty(t, res.KeystoreID)
	assert.Empty(t, res.Mnemonic)

	ids, err := m.ListWallets()
	require.NoError(t, err)
	assert.Equal(t, []string{res.KeystoreID}, ids)

	s, err := m.Unlock(res.KeystoreID, testPassword)
	require.NoError(t, err)
	defer m.ReleaseSession(s.ID())

	addr, err := m.DeriveAddress(s, "BTC", "MAINNET", "", "NONE")
	require.NoError(t, err)
	assert.Equal(t, res.Address, addr)

	// The same seed on the ethereum coin-type path yields the known
	// legacy-wallet address.
	legacy, err := m.DeriveAddress(s, "BTC", "MAINNET", "m/44'/60'/0'/0/0", "NONE")
	require.NoError(t, err)
	assert.Equal(t, "16Hp1Ga779iaTe1TxUFDEBqNCGvfh3EHDZ", legacy)

	owns, err := m.OwnsAddress(s, "BTC", "MAINNET", "m/44'/0'/0'/0/0", "NONE", res.Address)
	require.NoError(t, err)
	assert.True(t, owns)
}

func TestImportSegWitFormsDiffer(t *testing.T) {
	m := testManager(t, config.MinKDFRounds)

	legacy, err := m.ImportWallet("t1", testMnemonic, testPassword, "BTC", "TESTNET", "NONE")
	require.NoError(t, err)
	wrapped, err := m.ImportWallet("t2", testMnemonic, testPassword, "BTC", "TESTNET", "P2WPKH")
	require.NoError(t, err)

	assert.NotEqual(t, legacy.Address, wrapped.Address)
	assert.Equal(t, "mkpZhYtJu2r87Js3pDiWJDmPte2NRZ8bJV", legacy.Address)
	assert.Equal(t, "2Mww8dCYPUpKHofjgcXcBCEGmniw9CoaiD2", wrapped.Address)
}

func TestImportNativeSegWitVector(t *testing.T) {
	m := testManager(t, config.MinKDFRounds)

	res, err := m.ImportWallet("bech32", testMnemonic, testPassword, "BTC", "MAINNET", "VERSION_0")
	require.NoError(t, err)
	assert.Equal(t, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", res.Address)
}

func TestImportEthereumVector(t *testing.T) {
	m := testManager(t, config.MinKDFRounds)

	res, err := m.ImportWallet("eth", testMnemonic, testPassword, "ETHEREUM", "MAINNET", "NONE")
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", res.Address)
}

func TestImportInvalidParametersPersistsNothing(t *testing.T) {
	m := testManager(t, config.MinKDFRounds)

	cases := []struct {
		name                   string
		chain, network, segWit string
	}{
		{"unknown chain", "DOGE", "MAINNET", "NONE"},
		{"unknown network", "BTC", "STAGENET", "NONE"},
		{"unknown segwit", "BTC", "MAINNET", "TAPROOT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.ImportWallet("x", testMnemonic, testPassword, tc.chain, tc.network, tc.segWit)
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}

	_, err := m.ImportWallet("x", "not a mnemonic at all", testPassword, "BTC", "MAINNET", "NONE")
	assert.ErrorIs(t, err, keystore.ErrInvalidMnemonic)

	ids, err := m.ListWallets()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCreateWalletReturnsMnemonicOnce(t *testing.T) {
	m := testManager(t, config.MinKDFRounds)

	res, err := m.CreateWallet("fresh", testPassword, "BTC", "MAINNET", "NONE")
	require.NoError(t, err)
	require.NoError(t, keystore.ValidateMnemonic(res.Mnemonic))
	assert.NotEmpty(t, res.Address)

	exported, err := m.ExportMnemonic(res.KeystoreID, testPassword)
	require.NoError(t, err)
	assert.Equal(t, res.Mnemonic, exported)
}

func TestUnlockFailuresAreUniform(t *testing.T) {
	m := testManager(t, config.MinKDFRounds)

	res, err := m.ImportWallet("u", testMnemonic, testPassword, "BTC", "MAINNET", "NONE")
	require.NoError(t, err)

	_, err = m.Unlock(res.KeystoreID, "wrong password")
	assert.ErrorIs(t, err, ErrUnlockFailed)

	_, err = m.ExportPrivateKey(res.KeystoreID, "wrong password")
	assert.ErrorIs(t, err, ErrUnlockFailed)

	_, err = m.ExportMnemonic(res.KeystoreID, "wrong password")
	assert.ErrorIs(t, err, ErrUnlockFailed)

	_, err = m.Unlock("no-such-id", testPassword)
	assert.ErrorIs(t, err, db.ErrKeystoreNotFound)
}

func TestUnlockCorruptContainer(t *testing.T) {
	store := memdb.NewMemDB()
	m := NewManager(store, &config.Config{
		KDFRounds:         config.MinKDFRounds,
		SessionTTLSeconds: config.DefaultSessionTTLSeconds,
	})
	defer m.Close()

	require.NoError(t, store.PutKeystore("broken", []byte("{not json")))
	_, err := m.Unlock("broken", testPassword)
	assert.ErrorIs(t, err, ErrUnlockFailed)
}

func TestSessionLifecycle(t *testing.T) {
	m := testManager(t, config.MinKDFRounds)

	res, err := m.ImportWallet("s", testMnemonic, testPassword, "BTC", "MAINNET", "NONE")
	require.NoError(t, err)

	s, err := m.Unlock(res.KeystoreID, testPassword)
	require.NoError(t, err)
	assert.Equal(t, res.KeystoreID, s.KeystoreID())

	got, err := m.Session(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	m.ReleaseSession(s.ID())
	_, err = m.Session(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// A caller still holding the pointer cannot derive anymore.
	_, err = m.DeriveAddress(s, "BTC", "MAINNET", "", "NONE")
	assert.ErrorIs(t, err, ErrSessionClosed)

	// Releasing twice is harmless.
	m.ReleaseSession(s.ID())
	s.Release()
}

func TestExportPrivateKey(t *testing.T) {
	m := testManager(t, config.MinKDFRounds)

	res, err := m.ImportWallet("e", testMnemonic, testPassword, "BTC", "MAINNET", "NONE")
	require.NoError(t, err)

	keyHex, err := m.ExportPrivateKey(res.KeystoreID, testPassword)
	require.NoError(t, err)
	raw, err := hex.DecodeString(keyHex)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	again, err := m.ExportPrivateKey(res.KeystoreID, testPassword)
	require.NoError(t, err)
	assert.Equal(t, keyHex, again)
}

func TestKDFRoundsPortableAcrossManagers(t *testing.T) {
	store := memdb.NewMemDB()
	low := NewManager(store, &config.Config{
		KDFRounds:         config.MinKDFRounds,
		SessionTTLSeconds: config.DefaultSessionTTLSeconds,
	})

	res, err := low.ImportWallet("p", testMnemonic, testPassword, "BTC", "MAINNET", "NONE")
	require.NoError(t, err)

	// A process configured with a different cost still decrypts the
	// container because the rounds travel inside it.
	high := NewManager(store, &config.Config{
		KDFRounds:         4 * config.MinKDFRounds,
		SessionTTLSeconds: config.DefaultSessionTTLSeconds,
	})
	defer high.Close()

	exported, err := high.ExportMnemonic(res.KeystoreID, testPassword)
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, exported)
}

func TestDeleteWallet(t *testing.T) {
	m := testManager(t, config.MinKDFRounds)

	res, err := m.ImportWallet("d", testMnemonic, testPassword, "BTC", "MAINNET", "NONE")
	require.NoError(t, err)

	err = m.DeleteWallet(res.KeystoreID, "wrong password")
	assert.ErrorIs(t, err, ErrUnlockFailed)

	require.NoError(t, m.DeleteWallet(res.KeystoreID, testPassword))
	_, err = m.Unlock(res.KeystoreID, testPassword)
	assert.ErrorIs(t, err, db.ErrKeystoreNotFound)
}
