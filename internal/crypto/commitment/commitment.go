package commitment

import (
	"crypto/subtle"
	"hash"
	"math/big"
)

// Sum computes the hash commitment H(part_1 ‖ part_2 ‖ ... ‖ part_n).
// The parts are written in order with no separators, so callers must use
// fixed-width encodings wherever a boundary could otherwise shift.
//
// SM2 encryption uses this for the tag C3 = H(x2 ‖ M ‖ y2).
func Sum(newHash func() hash.Hash, parts ...[]byte) []byte {
	h := newHash()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// Verify recomputes the commitment over parts and compares it with c in
// constant time.
func Verify(newHash func() hash.Hash, c []byte, parts ...[]byte) bool {
	computed := Sum(newHash, parts...)
	if len(c) != len(computed) {
		return false
	}
	return subtle.ConstantTimeCompare(computed, c) == 1
}

// IntToBytes encodes i as a big-endian integer left-padded to size bytes.
// A nil i encodes as size zero bytes.
func IntToBytes(i *big.Int, size int) []byte {
	out := make([]byte, size)
	if i == nil {
		return out
	}
	return i.FillBytes(out)
}
