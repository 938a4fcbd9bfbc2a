// Package keystore implements the mnemonic-to-seed pipeline, hierarchical
// key derivation, and the password-based encrypted container that wraps
// derived secret material at rest.
package keystore

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/walletkit/wallet-core/keystore/zero"
)

// Version is the keystore container version this package produces.
const Version = 3

// Source records how the wallet entered the keystore.
type Source string

const (
	SourceMnemonic    Source = "MNEMONIC"
	SourceNewIdentity Source = "NEW_IDENTITY"
)

// Metadata describes the wallet a container belongs to.  It carries no
// secret material.
type Metadata struct {
	Name         string `json:"name"`
	PasswordHint string `json:"passwordHint"`
	ChainType    string `json:"chainType"`
	Network      string `json:"network"`
	SegWit       string `json:"segWit"`
	Timestamp    int64  `json:"timestamp"`
	Source       Source `json:"source"`
	Mode         string `json:"mode"`
	WalletType   string `json:"walletType"`
}

// Keystore is the persisted, self-describing encrypted container.  The KDF
// cost parameter is stored inside Crypto, so containers created under
// different cost settings remain mutually decryptable given the password.
type Keystore struct {
	ID           string     `json:"id"`
	Version      int        `json:"version"`
	Address      string     `json:"address"`
	Crypto       cryptoJSON `json:"crypto"`
	EncMnemonic  *EncPair   `json:"encMnemonic,omitempty"`
	MnemonicPath string     `json:"mnemonicPath,omitempty"`
	Metadata     Metadata   `json:"metadata"`
}

// New seals the secret bytes under the password, stretching it for
// kdfRounds iterations.  The secret is not consumed; the caller still owns
// and zeroes it.
func New(secret, password []byte, kdfRounds int, address string, meta Metadata) (*Keystore, error) {
	crypto, err := newCrypto(password, secret, kdfRounds)
	if err != nil {
		return nil, err
	}
	if meta.Timestamp == 0 {
		meta.Timestamp = time.Now().Unix()
	}
	if meta.WalletType == "" {
		meta.WalletType = "HD"
	}
	if meta.Mode == "" {
		meta.Mode = "NORMAL"
	}
	return &Keystore{
		ID:       uuid.NewString(),
		Version:  Version,
		Address:  address,
		Crypto:   *crypto,
		Metadata: meta,
	}, nil
}

// SealMnemonic stores the encrypted mnemonic and its derivation path inside
// the container so the wallet can later derive on arbitrary paths.
func (k *Keystore) SealMnemonic(password []byte, mnemonic, path string) error {
	pair, err := k.Crypto.deriveEncPair(password, []byte(mnemonic))
	if err != nil {
		return err
	}
	k.EncMnemonic = pair
	k.MnemonicPath = path
	return nil
}

// Decrypt recovers the sealed secret bytes.  The caller owns the plaintext
// and must zero it.
func (k *Keystore) Decrypt(password []byte) ([]byte, error) {
	if err := k.validate(); err != nil {
		return nil, err
	}
	return k.Crypto.decrypt(password)
}

// DecryptMnemonic recovers the sealed mnemonic phrase.
func (k *Keystore) DecryptMnemonic(password []byte) (string, error) {
	if err := k.validate(); err != nil {
		return "", err
	}
	if k.EncMnemonic == nil {
		return "", ErrCorruptKeystore
	}
	plaintext, err := k.Crypto.decryptEncPair(password, k.EncMnemonic)
	if err != nil {
		return "", err
	}
	mnemonic := string(plaintext)
	zero.Bytes(plaintext)
	return mnemonic, nil
}

// VerifyPassword reports whether the password opens the container without
// returning any plaintext.
func (k *Keystore) VerifyPassword(password []byte) bool {
	derivedKey, _, err := k.Crypto.deriveAndCheck(password)
	if err != nil {
		return false
	}
	zero.Bytes(derivedKey)
	return true
}

// KDFRounds reports the cost parameter recorded inside the container.
func (k *Keystore) KDFRounds() int {
	return k.Crypto.kdfRounds()
}

// Marshal renders the container as its canonical JSON document.
func (k *Keystore) Marshal() ([]byte, error) {
	return json.Marshal(k)
}

// Unmarshal parses and structurally validates a container document.
func Unmarshal(data []byte) (*Keystore, error) {
	ks := &Keystore{}
	if err := json.Unmarshal(data, ks); err != nil {
		return nil, ErrCorruptKeystore
	}
	if err := ks.validate(); err != nil {
		return nil, err
	}
	return ks, nil
}

func (k *Keystore) validate() error {
	if k.Version != Version || k.ID == "" {
		return ErrCorruptKeystore
	}
	return k.Crypto.validate()
}
