package curves

import (
	"errors"
	"math/big"
)

var (
	ErrPointLength     = errors.New("curves: encoded point has wrong length")
	ErrPointNotOnCurve = errors.New("curves: point is not on the curve")
)

var (
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Point is an affine curve point or the point at infinity. The zero value
// is the point at infinity.
//
// Points are treated as immutable values: every operation in this package
// returns freshly allocated coordinates and never modifies its inputs.
type Point struct {
	X, Y *big.Int
}

// Infinity returns the identity element of the group.
func Infinity() Point {
	return Point{}
}

// NewPoint returns the affine point (x, y). The coordinates are copied.
func NewPoint(x, y *big.Int) Point {
	return Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
}

// IsInfinity reports whether p is the identity element.
func (p Point) IsInfinity() bool {
	return p.X == nil || p.Y == nil
}

// Equal reports whether p and q are the same group element.
func (p Point) Equal(q Point) bool {
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() && q.IsInfinity()
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// IsOnCurve reports whether p satisfies the curve equation with both
// coordinates reduced. The point at infinity is not on the curve.
func (c *Params) IsOnCurve(p Point) bool {
	if p.IsInfinity() {
		return false
	}
	if p.X.Sign() < 0 || p.X.Cmp(c.P) >= 0 || p.Y.Sign() < 0 || p.Y.Cmp(c.P) >= 0 {
		return false
	}

	// y² mod p
	lhs := new(big.Int).Mul(p.Y, p.Y)
	lhs.Mod(lhs, c.P)

	// x³ + ax + b mod p
	rhs := new(big.Int).Mul(p.X, p.X)
	rhs.Mul(rhs, p.X)
	ax := new(big.Int).Mul(c.A, p.X)
	rhs.Add(rhs, ax)
	rhs.Add(rhs, c.B)
	rhs.Mod(rhs, c.P)

	return lhs.Cmp(rhs) == 0
}

// Neg returns -p = (x, p-y).
func (c *Params) Neg(p Point) Point {
	if p.IsInfinity() {
		return Infinity()
	}
	y := new(big.Int).Sub(c.P, p.Y)
	y.Mod(y, c.P)
	return Point{X: new(big.Int).Set(p.X), Y: y}
}

// Add returns p1 + p2 under the group law. When the x coordinates agree the
// call is routed to Double, or yields infinity for inverse points.
func (c *Params) Add(p1, p2 Point) Point {
	if p1.IsInfinity() {
		return p2
	}
	if p2.IsInfinity() {
		return p1
	}

	if p1.X.Cmp(p2.X) == 0 {
		sum := new(big.Int).Add(p1.Y, p2.Y)
		if sum.Mod(sum, c.P).Sign() == 0 {
			return Infinity()
		}
		return c.Double(p1)
	}

	// λ = (y2 - y1) / (x2 - x1)
	num := new(big.Int).Sub(p2.Y, p1.Y)
	num.Mod(num, c.P)
	den := new(big.Int).Sub(p2.X, p1.X)
	den.Mod(den, c.P)

	lambda := c.div(num, den)
	return c.chord(lambda, p1, p2.X)
}

// Double returns 2p. Points with y = 0 have order two and double to
// infinity.
func (c *Params) Double(p Point) Point {
	if p.IsInfinity() || p.Y.Sign() == 0 {
		return Infinity()
	}

	// λ = (3x² + a) / 2y
	num := new(big.Int).Mul(p.X, p.X)
	num.Mul(num, three)
	num.Add(num, c.A)
	num.Mod(num, c.P)
	den := new(big.Int).Mul(p.Y, two)
	den.Mod(den, c.P)

	lambda := c.div(num, den)
	return c.chord(lambda, p, p.X)
}

// chord finishes addition/doubling once the slope is known:
// x3 = λ² - x1 - x2, y3 = λ(x1 - x3) - y1.
func (c *Params) chord(lambda *big.Int, p1 Point, x2 *big.Int) Point {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p1.X)
	x3.Sub(x3, x2)
	x3.Mod(x3, c.P)

	y3 := new(big.Int).Sub(p1.X, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p1.Y)
	y3.Mod(y3, c.P)

	return Point{X: x3, Y: y3}
}

// div returns num * den⁻¹ mod p. A missing inverse can only come from
// operands that are not on the curve, which is a programming error.
func (c *Params) div(num, den *big.Int) *big.Int {
	inv := new(big.Int).ModInverse(den, c.P)
	if inv == nil {
		panic("curves: no modular inverse for slope denominator on " + c.Name)
	}
	inv.Mul(inv, num)
	return inv.Mod(inv, c.P)
}

// Marshal encodes p as x‖y, each left-padded to ByteLen. The point at
// infinity has no affine encoding and marshals to nil.
func (c *Params) Marshal(p Point) []byte {
	if p.IsInfinity() {
		return nil
	}
	size := c.ByteLen()
	out := make([]byte, 2*size)
	p.X.FillBytes(out[:size])
	p.Y.FillBytes(out[size:])
	return out
}

// Unmarshal decodes an x‖y encoding produced by Marshal and checks curve
// membership.
func (c *Params) Unmarshal(b []byte) (Point, error) {
	size := c.ByteLen()
	if len(b) != 2*size {
		return Infinity(), ErrPointLength
	}
	p := Point{
		X: new(big.Int).SetBytes(b[:size]),
		Y: new(big.Int).SetBytes(b[size:]),
	}
	if !c.IsOnCurve(p) {
		return Infinity(), ErrPointNotOnCurve
	}
	return p, nil
}
