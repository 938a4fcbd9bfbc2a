package wallet

import "errors"

var (
	// ErrInvalidParameters is returned when a chain/network/segwit
	// combination is not recognized, before any derivation happens.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrUnlockFailed covers both a wrong password and a corrupt
	// container.  The two are deliberately indistinguishable here so a
	// caller holding a stolen container gets no oracle for which one
	// occurred.
	ErrUnlockFailed = errors.New("unlock failed")

	// ErrSessionClosed is returned when key material is requested from a
	// session that was released or expired.
	ErrSessionClosed = errors.New("session released or expired")

	ErrSessionNotFound = errors.New("session not found")
)
