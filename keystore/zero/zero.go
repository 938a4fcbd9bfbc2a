// Package zero provides functions to clear sensitive data from memory.
// Clearing is best effort against incidental exposure of key material in
// process memory; it does not defend against an attacker with the ability
// to read arbitrary memory while the secret is live.
package zero

import "math/big"

// Bytes sets all bytes in the passed slice to zero.  This is used to
// explicitly clear private key material from memory.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BigInt sets all bytes in the passed big int to zero and then sets the
// value to 0.  This differs from simply setting the value in that it
// specifically clears the underlying bytes whereas simply setting the value
// does not.  This is mostly useful to forcefully clear material that
// big ints internally hold.
func BigInt(x *big.Int) {
	b := x.Bits()
	for i := range b {
		b[i] = 0
	}
	x.SetInt64(0)
}

// Bytea32 clears the 32-byte array.
func Bytea32(b *[32]byte) {
	*b = [32]byte{}
}

// Bytea64 clears the 64-byte array.
func Bytea64(b *[64]byte) {
	*b = [64]byte{}
}
