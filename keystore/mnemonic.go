package keystore

import (
	"strings"

	bip39 "github.com/tyler-smith/go-bip39"

	"github.com/walletkit/wallet-core/keystore/zero"
)

const (
	// DefaultEntropyBits is the entropy length used when generating a new
	// mnemonic, yielding a 12 word phrase.
	DefaultEntropyBits = 128

	// SeedLen is the length of a BIP39 seed in bytes.
	SeedLen = 64
)

// NewMnemonic generates a fresh mnemonic phrase from bitSize bits of
// entropy.  bitSize zero selects DefaultEntropyBits.
func NewMnemonic(bitSize int) (string, error) {
	if bitSize == 0 {
		bitSize = DefaultEntropyBits
	}
	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", err
	}
	defer zero.Bytes(entropy)

	return bip39.NewMnemonic(entropy)
}

// NormalizeMnemonic collapses whitespace so phrases pasted with stray
// spacing validate and derive identically.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(mnemonic)), " ")
}

// ValidateMnemonic checks the phrase against the wordlist and its embedded
// checksum.
func ValidateMnemonic(mnemonic string) error {
	if !bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic)) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewSeed derives the deterministic binary seed for the mnemonic and
// optional passphrase.  An absent passphrase is the empty string.  The
// caller owns the returned seed and must zero it when done.
func NewSeed(mnemonic, passphrase string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(NormalizeMnemonic(mnemonic), passphrase)
	if err != nil {
		return nil, ErrInvalidMnemonic
	}
	return seed, nil
}
