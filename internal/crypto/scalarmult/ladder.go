package scalarmult

import (
	"math/big"

	"github.com/smallyu/go-sm2/internal/crypto/curves"
)

type ladderMult struct {
	curve *curves.Params
}

func (m *ladderMult) Method() Method { return Ladder }

// ScalarMult keeps r0 = j·p and r1 = (j+1)·p for the prefix j of k read so
// far. Every bit costs exactly one addition and one doubling; the bit only
// decides which accumulator receives which result.
func (m *ladderMult) ScalarMult(k *big.Int, p curves.Point) curves.Point {
	if trivial(m.curve, k, p) {
		return curves.Infinity()
	}

	r := [2]curves.Point{curves.Infinity(), p}
	for i := k.BitLen() - 1; i >= 0; i-- {
		b := k.Bit(i)
		r[b^1] = m.curve.Add(r[0], r[1])
		r[b] = m.curve.Double(r[b])
	}
	return r[0]
}
