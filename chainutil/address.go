// Package chainutil renders derived public keys into chain-, network- and
// format-specific address strings.  Every encoder is a pure function of the
// public key and the registered chain parameters.
package chainutil

import (
	"encoding/hex"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/sha3"

	"github.com/walletkit/wallet-core/config"
)

var (
	// ErrUnsupportedFormat is returned when the segwit flag requests an
	// address variant the chain does not define.
	ErrUnsupportedFormat = errors.New("unsupported address format for chain")

	// ErrMissingCashAddrPrefix indicates chain params without the prefix
	// required for cashaddr encoding.
	ErrMissingCashAddrPrefix = errors.New("chain params missing cashaddr prefix")
)

// EncodeAddress renders the public key into an address string for the given
// chain/network parameters and segwit flag.  Account-based chains ignore the
// flag; UTXO chains reject variants they do not define.
func EncodeAddress(pubKey *btcec.PublicKey, params *config.Params, flag config.SegWit) (string, error) {
	if params.AccountBased {
		return encodeEthereumAddress(pubKey), nil
	}
	if !params.SupportsSegWit(flag) {
		return "", ErrUnsupportedFormat
	}

	pubKeyHash := btcutil.Hash160(pubKey.SerializeCompressed())

	if params.Chain == config.ChainTypeBCH {
		return encodeCashAddr(params.CashAddrPrefix, pubKeyHash)
	}

	switch flag {
	case config.SegWitNone:
		return base58.CheckEncode(pubKeyHash, params.PubKeyHashAddrID), nil
	case config.SegWitP2WPKH:
		// Script-wrapped compatibility form: P2SH of the v0 witness
		// program OP_0 <20-byte-key-hash>.
		redeemScript := make([]byte, 0, 22)
		redeemScript = append(redeemScript, 0x00, 0x14)
		redeemScript = append(redeemScript, pubKeyHash...)
		scriptHash := btcutil.Hash160(redeemScript)
		return base58.CheckEncode(scriptHash, params.ScriptHashAddrID), nil
	case config.SegWitVersion0:
		return encodeSegWitAddress(params.Bech32HRPSegwit, 0, pubKeyHash)
	default:
		return "", ErrUnsupportedFormat
	}
}

// VerifyAddress reports whether the address string is the one this package
// encodes for the key under the same parameters and flag.  Encoding is
// deterministic, so re-encoding and comparing is the inverse check.
func VerifyAddress(pubKey *btcec.PublicKey, params *config.Params, flag config.SegWit, address string) bool {
	encoded, err := EncodeAddress(pubKey, params, flag)
	if err != nil {
		return false
	}
	return encoded == address
}

// encodeSegWitAddress creates a bech32 encoded address string representation
// from witness version and witness program.
func encodeSegWitAddress(hrp string, witnessVersion byte, witnessProgram []byte) (string, error) {
	converted, err := bech32.ConvertBits(witnessProgram, 8, 5, true)
	if err != nil {
		return "", err
	}

	combined := make([]byte, len(converted)+1)
	combined[0] = witnessVersion
	copy(combined[1:], converted)
	return bech32.Encode(hrp, combined)
}

// encodeEthereumAddress derives the EIP-55 checksummed account address from
// the keccak256 hash of the uncompressed public key.
func encodeEthereumAddress(pubKey *btcec.PublicKey) string {
	uncompressed := pubKey.SerializeUncompressed()

	keccak := sha3.NewLegacyKeccak256()
	keccak.Write(uncompressed[1:]) // drop the 0x04 point marker
	accountBytes := keccak.Sum(nil)[12:]

	return "0x" + toChecksumHex(accountBytes)
}

// toChecksumHex applies the EIP-55 mixed-case checksum to the hex rendering
// of the 20-byte account.
func toChecksumHex(account []byte) string {
	lower := hex.EncodeToString(account)

	keccak := sha3.NewLegacyKeccak256()
	keccak.Write([]byte(lower))
	hash := keccak.Sum(nil)

	checksummed := []byte(lower)
	for i, c := range checksummed {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := hash[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			checksummed[i] = c - ('a' - 'A')
		}
	}
	return string(checksummed)
}
