package wallet

import (
	"sync"

	"github.com/walletkit/wallet-core/keystore/zero"
)

// Session holds a decrypted seed between Unlock and ReleaseSession.  The
// seed stays in this one place; derive calls borrow it and zero their own
// intermediates.  Safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	id         string
	keystoreID string
	seed       []byte
	released   bool
}

// ID returns the opaque session handle.
func (s *Session) ID() string {
	return s.id
}

// KeystoreID returns the id of the container this session was unlocked from.
func (s *Session) KeystoreID() string {
	return s.keystoreID
}

// withSeed runs fn against the live seed, failing if the session has been
// released.  fn must not retain the slice.
func (s *Session) withSeed(fn func(seed []byte) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrSessionClosed
	}
	return fn(s.seed)
}

// Release wipes the seed.  Further derivations on this session fail with
// ErrSessionClosed.  Calling Release more than once is harmless.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	zero.Bytes(s.seed)
	s.seed = nil
	s.released = true
}
