package keystore

import "errors"

var (
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	ErrInvalidPath        = errors.New("invalid derivation path")
	ErrDerivationOverflow = errors.New("derivation index exceeds valid range")

	ErrUnsupportedChainType = errors.New("unsupported chain type for derivation")

	// ErrWrongPassword and ErrCorruptKeystore are distinguishable inside
	// the core only; the wallet facade folds both into a single unlock
	// failure so callers get no oracle for which one occurred.
	ErrWrongPassword   = errors.New("mac authentication failed")
	ErrCorruptKeystore = errors.New("corrupt keystore container")

	ErrUnusableSeed = errors.New("the provided seed is unusable")
)
