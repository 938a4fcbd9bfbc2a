package config

import (
	"errors"
)

var (
	ErrUnknownChainType = errors.New("unknown chain type")
	ErrUnknownNetwork   = errors.New("unknown network")
	ErrUnknownSegWit    = errors.New("unknown segwit flag")
	ErrUnknownParams    = errors.New("no parameters registered for chain/network")
)

// ChainType selects the address/curve convention of a supported chain.
// The set is closed; every member implements the same derive/encode pair.
type ChainType string

const (
	ChainTypeBTC      ChainType = "BTC"
	ChainTypeLTC      ChainType = "LTC"
	ChainTypeBCH      ChainType = "BCH"
	ChainTypeEthereum ChainType = "ETHEREUM"
)

// Network changes address version/prefix bytes only, never derivation math.
type Network string

const (
	NetworkMainNet Network = "MAINNET"
	NetworkTestNet Network = "TESTNET"
)

// SegWit selects the address format for UTXO-style chains.  SegWitP2WPKH is
// the script-wrapped (P2SH) compatibility form, SegWitVersion0 the native
// bech32 witness form.
type SegWit string

const (
	SegWitNone     SegWit = "NONE"
	SegWitP2WPKH   SegWit = "P2WPKH"
	SegWitVersion0 SegWit = "VERSION_0"
)

// CurveSecp256k1 is currently the only supported curve tag.
const CurveSecp256k1 = "secp256k1"

// Params defines the chain- and network-specific constants for address
// encoding and hierarchical derivation.
type Params struct {
	Name  string
	Chain ChainType
	Net   Network

	// Curve names the elliptic curve the chain signs with.
	Curve string

	// AccountBased marks chains without a UTXO/witness concept; the
	// segwit flag is ignored for them instead of rejected.
	AccountBased bool

	// HDCoinType is the BIP44 coin type used in the hierarchical
	// deterministic path for address generation.
	HDCoinType uint32

	// Address encoding magics
	PubKeyHashAddrID byte   // First byte of a P2PKH address
	ScriptHashAddrID byte   // First byte of a P2SH address
	Bech32HRPSegwit  string // HRP for Bech32 encoded segwit addresses
	CashAddrPrefix   string // cashaddr prefix, BCH only

	segWits map[SegWit]struct{}
}

// SupportsSegWit reports whether the chain defines the given address format.
// Account-based chains report true for every flag since the flag is ignored.
func (p *Params) SupportsSegWit(flag SegWit) bool {
	if p.AccountBased {
		return true
	}
	_, ok := p.segWits[flag]
	return ok
}

var (
	btcMainNetParams = Params{
		Name:             "btc-mainnet",
		Chain:            ChainTypeBTC,
		Net:              NetworkMainNet,
		Curve:            CurveSecp256k1,
		HDCoinType:       0,
		PubKeyHashAddrID: 0x00, // starts with 1
		ScriptHashAddrID: 0x05, // starts with 3
		Bech32HRPSegwit:  "bc",
		segWits:          utxoSegWits,
	}

	btcTestNetParams = Params{
		Name:             "btc-testnet",
		Chain:            ChainTypeBTC,
		Net:              NetworkTestNet,
		Curve:            CurveSecp256k1,
		HDCoinType:       1,
		PubKeyHashAddrID: 0x6f, // starts with m or n
		ScriptHashAddrID: 0xc4, // starts with 2
		Bech32HRPSegwit:  "tb",
		segWits:          utxoSegWits,
	}

	ltcMainNetParams = Params{
		Name:             "ltc-mainnet",
		Chain:            ChainTypeLTC,
		Net:              NetworkMainNet,
		Curve:            CurveSecp256k1,
		HDCoinType:       2,
		PubKeyHashAddrID: 0x30, // starts with L
		ScriptHashAddrID: 0x32, // starts with M
		Bech32HRPSegwit:  "ltc",
		segWits:          utxoSegWits,
	}

	ltcTestNetParams = Params{
		Name:             "ltc-testnet",
		Chain:            ChainTypeLTC,
		Net:              NetworkTestNet,
		Curve:            CurveSecp256k1,
		HDCoinType:       1,
		PubKeyHashAddrID: 0x6f, // starts with m or n
		ScriptHashAddrID: 0x3a, // starts with Q
		Bech32HRPSegwit:  "tltc",
		segWits:          utxoSegWits,
	}

	bchMainNetParams = Params{
		Name:             "bch-mainnet",
		Chain:            ChainTypeBCH,
		Net:              NetworkMainNet,
		Curve:            CurveSecp256k1,
		HDCoinType:       145,
		PubKeyHashAddrID: 0x00,
		ScriptHashAddrID: 0x05,
		CashAddrPrefix:   "bitcoincash",
		segWits:          legacyOnlySegWits,
	}

	bchTestNetParams = Params{
		Name:             "bch-testnet",
		Chain:            ChainTypeBCH,
		Net:              NetworkTestNet,
		Curve:            CurveSecp256k1,
		HDCoinType:       1,
		PubKeyHashAddrID: 0x6f,
		ScriptHashAddrID: 0xc4,
		CashAddrPrefix:   "bchtest",
		segWits:          legacyOnlySegWits,
	}

	ethMainNetParams = Params{
		Name:         "eth-mainnet",
		Chain:        ChainTypeEthereum,
		Net:          NetworkMainNet,
		Curve:        CurveSecp256k1,
		AccountBased: true,
		HDCoinType:   60,
	}

	ethTestNetParams = Params{
		Name:         "eth-testnet",
		Chain:        ChainTypeEthereum,
		Net:          NetworkTestNet,
		Curve:        CurveSecp256k1,
		AccountBased: true,
		HDCoinType:   60,
	}
)

var (
	utxoSegWits = map[SegWit]struct{}{
		SegWitNone:     {},
		SegWitP2WPKH:   {},
		SegWitVersion0: {},
	}
	legacyOnlySegWits = map[SegWit]struct{}{
		SegWitNone: {},
	}

	registeredParams = map[ChainType]map[Network]*Params{
		ChainTypeBTC: {
			NetworkMainNet: &btcMainNetParams,
			NetworkTestNet: &btcTestNetParams,
		},
		ChainTypeLTC: {
			NetworkMainNet: &ltcMainNetParams,
			NetworkTestNet: &ltcTestNetParams,
		},
		ChainTypeBCH: {
			NetworkMainNet: &bchMainNetParams,
			NetworkTestNet: &bchTestNetParams,
		},
		ChainTypeEthereum: {
			NetworkMainNet: &ethMainNetParams,
			NetworkTestNet: &ethTestNetParams,
		},
	}
)

// ChainParams returns the registered parameters for the chain/network pair.
func ChainParams(chain ChainType, net Network) (*Params, error) {
	byNet, ok := registeredParams[chain]
	if !ok {
		return nil, ErrUnknownChainType
	}
	params, ok := byNet[net]
	if !ok {
		return nil, ErrUnknownParams
	}
	return params, nil
}

// ParseChainType validates the string form of a chain type.
func ParseChainType(s string) (ChainType, error) {
	chain := ChainType(s)
	if _, ok := registeredParams[chain]; !ok {
		return "", ErrUnknownChainType
	}
	return chain, nil
}

// ParseNetwork validates the string form of a network.
func ParseNetwork(s string) (Network, error) {
	switch net := Network(s); net {
	case NetworkMainNet, NetworkTestNet:
		return net, nil
	default:
		return "", ErrUnknownNetwork
	}
}

// ParseSegWit validates the string form of a segwit flag.  The empty string
// means no segwit, matching callers that omit the parameter.
func ParseSegWit(s string) (SegWit, error) {
	if s == "" {
		return SegWitNone, nil
	}
	switch flag := SegWit(s); flag {
	case SegWitNone, SegWitP2WPKH, SegWitVersion0:
		return flag, nil
	default:
		return "", ErrUnknownSegWit
	}
}
