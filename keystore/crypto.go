package keystore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/crypto/sha3"

	"github.com/walletkit/wallet-core/keystore/zero"
)

const (
	cipherAES128CTR = "aes-128-ctr"

	kdfPBKDF2 = "pbkdf2"
	kdfScrypt = "scrypt"

	prfHMACSHA256 = "hmac-sha256"

	derivedKeyLen = 32
	saltSize      = 32
	ivSize        = 16

	// scrypt cost parameters accepted on decrypt for containers sealed
	// by scrypt-based producers.
	defaultScryptR = 8
	defaultScryptP = 1
)

// cryptoJSON is the encrypted-at-rest section of a keystore container.  The
// KDF cost parameters live inside it, so decryption never needs ambient
// configuration to recover the symmetric key.
type cryptoJSON struct {
	Cipher       string           `json:"cipher"`
	CipherParams cipherParamsJSON `json:"cipherparams"`
	CipherText   string           `json:"ciphertext"`
	KDF          string           `json:"kdf"`
	KDFParams    kdfParamsJSON    `json:"kdfparams"`
	MAC          string           `json:"mac"`
}

type cipherParamsJSON struct {
	IV string `json:"iv"`
}

type kdfParamsJSON struct {
	C     int    `json:"c,omitempty"`
	Prf   string `json:"prf,omitempty"`
	N     int    `json:"n,omitempty"`
	R     int    `json:"r,omitempty"`
	P     int    `json:"p,omitempty"`
	DKLen int    `json:"dklen"`
	Salt  string `json:"salt"`
}

// EncPair is a secondary ciphertext sealed under the same derived key with
// its own nonce, used for the encrypted mnemonic.
type EncPair struct {
	EncStr string `json:"encStr"`
	Nonce  string `json:"nonce"`
}

// newCrypto authenticated-encrypts plaintext under the password, stretching
// it through PBKDF2-HMAC-SHA256 for kdfRounds iterations.  Salt and IV are
// freshly random per call and never reused.
func newCrypto(password, plaintext []byte, kdfRounds int) (*cryptoJSON, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	derivedKey := pbkdf2.Key(password, salt, kdfRounds, derivedKeyLen, sha256.New)
	defer zero.Bytes(derivedKey)

	cipherText, err := aesCTR(derivedKey[:16], iv, plaintext)
	if err != nil {
		return nil, err
	}

	return &cryptoJSON{
		Cipher:       cipherAES128CTR,
		CipherParams: cipherParamsJSON{IV: hex.EncodeToString(iv)},
		CipherText:   hex.EncodeToString(cipherText),
		KDF:          kdfPBKDF2,
		KDFParams: kdfParamsJSON{
			C:     kdfRounds,
			Prf:   prfHMACSHA256,
			DKLen: derivedKeyLen,
			Salt:  hex.EncodeToString(salt),
		},
		MAC: hex.EncodeToString(computeMAC(derivedKey, cipherText)),
	}, nil
}

// kdfRounds reports the cost parameter stored in the container.
func (c *cryptoJSON) kdfRounds() int {
	if c.KDF == kdfScrypt {
		return c.KDFParams.N
	}
	return c.KDFParams.C
}

// decrypt re-derives the symmetric key from the password and the
// container's stored KDF parameters, verifies the MAC, and returns the
// plaintext.  The caller owns the plaintext and must zero it.  A MAC
// mismatch is ErrWrongPassword; structural damage is ErrCorruptKeystore.
func (c *cryptoJSON) decrypt(password []byte) ([]byte, error) {
	derivedKey, cipherText, err := c.deriveAndCheck(password)
	if err != nil {
		return nil, err
	}
	defer zero.Bytes(derivedKey)

	plaintext, err := aesCTR(derivedKey[:16], c.ivBytes(), cipherText)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// deriveEncPair seals plaintext under the container's derived key with a
// fresh nonce.  The password must be the one the container was sealed with.
func (c *cryptoJSON) deriveEncPair(password, plaintext []byte) (*EncPair, error) {
	derivedKey, _, err := c.deriveAndCheck(password)
	if err != nil {
		return nil, err
	}
	defer zero.Bytes(derivedKey)

	nonce := make([]byte, ivSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	encrypted, err := aesCTR(derivedKey[:16], nonce, plaintext)
	if err != nil {
		return nil, err
	}
	return &EncPair{
		EncStr: hex.EncodeToString(encrypted),
		Nonce:  hex.EncodeToString(nonce),
	}, nil
}

// decryptEncPair reverses deriveEncPair.  The caller owns the plaintext and
// must zero it.
func (c *cryptoJSON) decryptEncPair(password []byte, pair *EncPair) ([]byte, error) {
	derivedKey, _, err := c.deriveAndCheck(password)
	if err != nil {
		return nil, err
	}
	defer zero.Bytes(derivedKey)

	nonce, err := hex.DecodeString(pair.Nonce)
	if err != nil || len(nonce) != ivSize {
		return nil, ErrCorruptKeystore
	}
	encrypted, err := hex.DecodeString(pair.EncStr)
	if err != nil {
		return nil, ErrCorruptKeystore
	}
	return aesCTR(derivedKey[:16], nonce, encrypted)
}

// deriveAndCheck runs the stored KDF over the password and authenticates
// the primary ciphertext.  On success the caller owns the derived key and
// must zero it.
func (c *cryptoJSON) deriveAndCheck(password []byte) ([]byte, []byte, error) {
	if err := c.validate(); err != nil {
		return nil, nil, err
	}

	salt, err := hex.DecodeString(c.KDFParams.Salt)
	if err != nil {
		return nil, nil, ErrCorruptKeystore
	}
	cipherText, err := hex.DecodeString(c.CipherText)
	if err != nil {
		return nil, nil, ErrCorruptKeystore
	}
	storedMAC, err := hex.DecodeString(c.MAC)
	if err != nil {
		return nil, nil, ErrCorruptKeystore
	}

	var derivedKey []byte
	switch c.KDF {
	case kdfPBKDF2:
		derivedKey = pbkdf2.Key(password, salt, c.KDFParams.C, c.KDFParams.DKLen, sha256.New)
	case kdfScrypt:
		r, p := c.KDFParams.R, c.KDFParams.P
		if r == 0 {
			r = defaultScryptR
		}
		if p == 0 {
			p = defaultScryptP
		}
		derivedKey, err = scrypt.Key(password, salt, c.KDFParams.N, r, p, c.KDFParams.DKLen)
		if err != nil {
			return nil, nil, ErrCorruptKeystore
		}
	default:
		return nil, nil, ErrCorruptKeystore
	}

	if !bytes.Equal(computeMAC(derivedKey, cipherText), storedMAC) {
		zero.Bytes(derivedKey)
		return nil, nil, ErrWrongPassword
	}
	return derivedKey, cipherText, nil
}

// validate checks the structural shape of the container section.
func (c *cryptoJSON) validate() error {
	if c.Cipher != cipherAES128CTR {
		return ErrCorruptKeystore
	}
	if c.CipherText == "" || c.KDFParams.Salt == "" || c.MAC == "" {
		return ErrCorruptKeystore
	}
	if c.KDFParams.DKLen < 16 {
		return ErrCorruptKeystore
	}
	switch c.KDF {
	case kdfPBKDF2:
		if c.KDFParams.C <= 0 {
			return ErrCorruptKeystore
		}
	case kdfScrypt:
		if c.KDFParams.N <= 0 {
			return ErrCorruptKeystore
		}
	default:
		return ErrCorruptKeystore
	}
	iv := c.ivBytes()
	if len(iv) != ivSize {
		return ErrCorruptKeystore
	}
	return nil
}

func (c *cryptoJSON) ivBytes() []byte {
	iv, err := hex.DecodeString(c.CipherParams.IV)
	if err != nil {
		return nil
	}
	return iv
}

// computeMAC authenticates the ciphertext with the second half of the
// derived key, keccak256(dk[16:32] || ciphertext).
func computeMAC(derivedKey, cipherText []byte) []byte {
	keccak := sha3.NewLegacyKeccak256()
	keccak.Write(derivedKey[16:32])
	keccak.Write(cipherText)
	return keccak.Sum(nil)
}

func aesCTR(key, iv, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)
	return out, nil
}
