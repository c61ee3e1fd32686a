package scalarmult

import (
	"math/big"

	"github.com/smallyu/go-sm2/internal/crypto/curves"
)

type binaryMult struct {
	curve *curves.Params
}

func (m *binaryMult) Method() Method { return Binary }

// ScalarMult scans k from the least significant bit, adding the running
// power-of-two multiple of p whenever the bit is set.
func (m *binaryMult) ScalarMult(k *big.Int, p curves.Point) curves.Point {
	if trivial(m.curve, k, p) {
		return curves.Infinity()
	}

	result := curves.Infinity()
	current := p
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			result = m.curve.Add(result, current)
		}
		current = m.curve.Double(current)
	}
	return result
}
