package keystore

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	// BIP39 reference vectors for testMnemonic.
	seedHexNoPassphrase = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"
	seedHexTrezor       = "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04"
)

func TestNewSeedVectors(t *testing.T) {
	seed, err := NewSeed(testMnemonic, "")
	if err != nil {
		t.Fatalf("failed to derive seed: %v", err)
	}
	if got := hex.EncodeToString(seed); got != seedHexNoPassphrase {
		t.Fatalf("unexpected seed: %s", got)
	}

	seed, err = NewSeed(testMnemonic, "TREZOR")
	if err != nil {
		t.Fatalf("failed to derive seed with passphrase: %v", err)
	}
	if got := hex.EncodeToString(seed); got != seedHexTrezor {
		t.Fatalf("unexpected passphrase seed: %s", got)
	}
}

func TestNewSeedDeterministic(t *testing.T) {
	first, err := NewSeed(testMnemonic, "pass")
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewSeed(testMnemonic, "pass")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("identical inputs produced differing seeds")
	}

	other, err := NewSeed(testMnemonic, "other")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first, other) {
		t.Fatal("differing passphrases produced identical seeds")
	}
}

func TestNewSeedNormalizesWhitespace(t *testing.T) {
	messy := "  " + strings.ReplaceAll(testMnemonic, " ", "   ") + " "
	seed, err := NewSeed(messy, "")
	if err != nil {
		t.Fatalf("normalized mnemonic rejected: %v", err)
	}
	if got := hex.EncodeToString(seed); got != seedHexNoPassphrase {
		t.Fatalf("whitespace changed the seed: %s", got)
	}
}

func TestValidateMnemonic(t *testing.T) {
	if err := ValidateMnemonic(testMnemonic); err != nil {
		t.Fatalf("valid mnemonic rejected: %v", err)
	}

	// Swapping a word breaks the checksum.
	badChecksum := strings.Replace(testMnemonic, "about", "abandon", 1)
	if err := ValidateMnemonic(badChecksum); err != ErrInvalidMnemonic {
		t.Fatalf("expected ErrInvalidMnemonic, got %v", err)
	}

	// A word outside the wordlist.
	if err := ValidateMnemonic("zzzz " + testMnemonic); err != ErrInvalidMnemonic {
		t.Fatalf("expected ErrInvalidMnemonic, got %v", err)
	}

	if _, err := NewSeed(badChecksum, ""); err != ErrInvalidMnemonic {
		t.Fatalf("NewSeed accepted invalid mnemonic: %v", err)
	}
}

func TestNewMnemonic(t *testing.T) {
	mnemonic, err := NewMnemonic(0)
	if err != nil {
		t.Fatalf("failed to generate mnemonic: %v", err)
	}
	if got := len(strings.Fields(mnemonic)); got != 12 {
		t.Fatalf("expected 12 words, got %d", got)
	}
	if err := ValidateMnemonic(mnemonic); err != nil {
		t.Fatalf("generated mnemonic invalid: %v", err)
	}

	other, err := NewMnemonic(0)
	if err != nil {
		t.Fatal(err)
	}
	if mnemonic == other {
		t.Fatal("two generated mnemonics are identical")
	}
}
