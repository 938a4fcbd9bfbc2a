package chainutil

import "errors"

// cashaddr encoding for Bitcoin Cash, per the cashaddr specification.  Only
// the P2PKH type with a 160-bit hash is produced here, which is what a
// single public key imports.

const cashCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var errInvalidHashLength = errors.New("cashaddr hash must be 20 bytes")

// encodeCashAddr encodes a 20-byte public key hash as a P2PKH cashaddr
// under the given prefix ("bitcoincash" or "bchtest").
func encodeCashAddr(prefix string, pubKeyHash []byte) (string, error) {
	if prefix == "" {
		return "", ErrMissingCashAddrPrefix
	}
	if len(pubKeyHash) != 20 {
		return "", errInvalidHashLength
	}

	// Version byte: type 0 (P2PKH) in the upper bits, size 0 (160 bits)
	// in the lower.
	payload := make([]byte, 0, 21)
	payload = append(payload, 0x00)
	payload = append(payload, pubKeyHash...)

	data := convertBits8to5(payload)

	checksumInput := make([]byte, 0, len(prefix)+1+len(data)+8)
	for _, c := range prefix {
		checksumInput = append(checksumInput, byte(c)&0x1f)
	}
	checksumInput = append(checksumInput, 0)
	checksumInput = append(checksumInput, data...)
	checksumInput = append(checksumInput, 0, 0, 0, 0, 0, 0, 0, 0)

	mod := cashPolymod(checksumInput)

	encoded := make([]byte, 0, len(data)+8)
	for _, d := range data {
		encoded = append(encoded, cashCharset[d])
	}
	for i := 0; i < 8; i++ {
		encoded = append(encoded, cashCharset[(mod>>uint(5*(7-i)))&0x1f])
	}

	return prefix + ":" + string(encoded), nil
}

// convertBits8to5 regroups 8-bit bytes into 5-bit groups, padding the final
// group with zero bits.
func convertBits8to5(data []byte) []byte {
	var acc uint32
	var bits uint
	out := make([]byte, 0, (len(data)*8+4)/5)
	for _, b := range data {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out = append(out, byte(acc>>bits)&0x1f)
		}
	}
	if bits > 0 {
		out = append(out, byte(acc<<(5-bits))&0x1f)
	}
	return out
}

// cashPolymod is the BCH checksum function over GF(2^5) defined by the
// cashaddr specification.
func cashPolymod(v []byte) uint64 {
	c := uint64(1)
	for _, d := range v {
		c0 := byte(c >> 35)
		c = ((c & 0x07ffffffff) << 5) ^ uint64(d)
		if c0&0x01 != 0 {
			c ^= 0x98f2bc8e61
		}
		if c0&0x02 != 0 {
			c ^= 0x79b76d99e2
		}
		if c0&0x04 != 0 {
			c ^= 0xf33e5fb3c4
		}
		if c0&0x08 != 0 {
			c ^= 0xae2eabe2a8
		}
		if c0&0x10 != 0 {
			c ^= 0x1e4f43e470
		}
	}
	return c ^ 1
}
