package mobile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bindMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	bindPassword = "Insecure Pa55w0rd"
)

func initBinding(t *testing.T) {
	t.Helper()
	t.Setenv("WALLET_KDF_ROUNDS", "1024")
	require.NoError(t, InitInMemory())
	t.Cleanup(func() { Shutdown() })
}

func TestBindingRequiresInit(t *testing.T) {
	_, err := ImportWallet("x", bindMnemonic, bindPassword, "BTC", "MAINNET", "NONE")
	assert.Error(t, err)
}

func TestBindingRejectsDoubleInit(t *testing.T) {
	initBinding(t)

	addr, err := ImportWallet("phone", bindMnemonic, bindPassword, "BTC", "MAINNET", "NONE")
	require.NoError(t, err)

	// A second Init must refuse before opening any resources, leaving the
	// running manager untouched.
	dataDir := t.TempDir()
	assert.Error(t, Init(dataDir))
	assert.Error(t, InitInMemory())
	assert.NoDirExists(t, filepath.Join(dataDir, "keystore"))

	id, err := FindWalletID(addr)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestBindingImportUnlockDerive(t *testing.T) {
	initBinding(t)

	addr, err := ImportWallet("phone", bindMnemonic, bindPassword, "BTC", "MAINNET", "NONE")
	require.NoError(t, err)
	assert.Equal(t, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", addr)

	id, err := FindWalletID(addr)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	handle, err := Unlock(id, bindPassword)
	require.NoError(t, err)

	derived, err := DeriveAddress(handle, "BTC", "MAINNET", "", "NONE")
	require.NoError(t, err)
	assert.Equal(t, addr, derived)

	native, err := DeriveAddress(handle, "BTC", "MAINNET", "", "VERSION_0")
	require.NoError(t, err)
	assert.Equal(t, "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", native)

	require.NoError(t, ReleaseSession(handle))
	_, err = DeriveAddress(handle, "BTC", "MAINNET", "", "NONE")
	assert.Error(t, err)
}

func TestBindingExports(t *testing.T) {
	initBinding(t)

	addr, err := ImportWallet("phone", bindMnemonic, bindPassword, "ETHEREUM", "MAINNET", "NONE")
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", addr)

	id, err := FindWalletID(addr)
	require.NoError(t, err)

	phrase, err := ExportMnemonic(id, bindPassword)
	require.NoError(t, err)
	assert.Equal(t, bindMnemonic, phrase)

	_, err = ExportPrivateKey(id, "wrong")
	assert.Error(t, err)

	require.NoError(t, DeleteWallet(id, bindPassword))
	got, err := FindWalletID(addr)
	require.NoError(t, err)
	assert.Empty(t, got)
}
