package keystore

import (
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/walletkit/wallet-core/config"
	"github.com/walletkit/wallet-core/keystore/zero"
)

// HardenedKeyStart is the index at which a derived key becomes hardened.
const HardenedKeyStart = hdkeychain.HardenedKeyStart

// PathSegment is one step of a derivation path.  Index is the child number
// within its hardened or non-hardened space.
type PathSegment struct {
	Index    uint32
	Hardened bool
}

// DerivationPath is an ordered sequence of segments identifying a position
// in the key tree.
type DerivationPath []PathSegment

// String renders the path in the conventional m/44'/0'/0'/0/0 form.
func (path DerivationPath) String() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, seg := range path {
		sb.WriteString("/")
		sb.WriteString(strconv.FormatUint(uint64(seg.Index), 10))
		if seg.Hardened {
			sb.WriteString("'")
		}
	}
	return sb.String()
}

// ParseDerivationPath parses the m/44'/0'/0'/0/0 form.  The apostrophe, "h"
// and "H" all mark a hardened segment.
func ParseDerivationPath(s string) (DerivationPath, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) < 2 || (parts[0] != "m" && parts[0] != "M") {
		return nil, ErrInvalidPath
	}

	path := make(DerivationPath, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if part == "" {
			return nil, ErrInvalidPath
		}
		hardened := false
		switch part[len(part)-1] {
		case '\'', 'h', 'H':
			hardened = true
			part = part[:len(part)-1]
		}
		index, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, ErrInvalidPath
		}
		if index >= HardenedKeyStart {
			return nil, ErrDerivationOverflow
		}
		path = append(path, PathSegment{Index: uint32(index), Hardened: hardened})
	}
	return path, nil
}

// DefaultPath returns the conventional account 0, external branch, index 0
// path for the chain, selecting the purpose level by address format the way
// BIP44/BIP49/BIP84 assign them.
func DefaultPath(params *config.Params, flag config.SegWit) DerivationPath {
	purpose := uint32(44)
	if !params.AccountBased {
		switch flag {
		case config.SegWitP2WPKH:
			purpose = 49
		case config.SegWitVersion0:
			purpose = 84
		}
	}
	return DerivationPath{
		{Index: purpose, Hardened: true},
		{Index: params.HDCoinType, Hardened: true},
		{Index: 0, Hardened: true},
		{Index: 0},
		{Index: 0},
	}
}

// KeyPair is the key material derived at one position of the tree.  The
// private component must be the last thing zeroed when the pair is dropped.
type KeyPair struct {
	privKey *btcec.PrivateKey
	pubKey  *btcec.PublicKey
	path    DerivationPath
}

// PubKey returns the public key.
func (kp *KeyPair) PubKey() *btcec.PublicKey {
	return kp.pubKey
}

// PrivKeyBytes returns a fresh copy of the serialized private key.  The
// caller owns the copy and must zero it.
func (kp *KeyPair) PrivKeyBytes() []byte {
	serialized := kp.privKey.Serialize()
	out := make([]byte, len(serialized))
	copy(out, serialized)
	zero.Bytes(serialized)
	return out
}

// Path returns the derivation path the pair was derived at.
func (kp *KeyPair) Path() DerivationPath {
	return kp.path
}

// Zero clears the private key material.
func (kp *KeyPair) Zero() {
	if kp.privKey != nil {
		kp.privKey.Zero()
		kp.privKey = nil
	}
	kp.pubKey = nil
}

// DeriveKeyPair expands the seed into the extended key at path for the
// given chain parameters.  The seed is not consumed and may be reused for
// sibling or descendant paths.
func DeriveKeyPair(seed []byte, params *config.Params, path DerivationPath) (*KeyPair, error) {
	if params.Curve != config.CurveSecp256k1 {
		return nil, ErrUnsupportedChainType
	}
	if len(path) == 0 {
		return nil, ErrInvalidPath
	}

	// The chaincfg params only select extended-key serialization magic,
	// which never leaves this function; derivation math is identical on
	// every supported chain.
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		if err == hdkeychain.ErrInvalidSeedLen {
			return nil, ErrUnusableSeed
		}
		return nil, err
	}

	for _, seg := range path {
		index := seg.Index
		if seg.Hardened {
			index += HardenedKeyStart
		}
		child, err := key.Derive(index)
		key.Zero()
		if err != nil {
			if err == hdkeychain.ErrInvalidChild {
				return nil, ErrUnusableSeed
			}
			return nil, err
		}
		key = child
	}
	defer key.Zero()

	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		privKey: privKey,
		pubKey:  privKey.PubKey(),
		path:    path,
	}, nil
}
