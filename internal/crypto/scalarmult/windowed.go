package scalarmult

import (
	"math/big"

	"github.com/smallyu/go-sm2/internal/crypto/curves"
)

type windowedMult struct {
	curve  *curves.Params
	window int
	cache  *TableCache
}

func (m *windowedMult) Method() Method { return Windowed }

func (m *windowedMult) ScalarMult(k *big.Int, p curves.Point) curves.Point {
	if trivial(m.curve, k, p) {
		return curves.Infinity()
	}
	return m.cache.Get(m.curve, p, m.window).ScalarMult(k)
}
