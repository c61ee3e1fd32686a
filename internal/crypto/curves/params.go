package curves

import (
	"fmt"
	"math/big"
	"strings"
)

// Params holds the domain parameters of a short Weierstrass curve
// y² = x³ + ax + b over GF(p) with a base point G of prime order N.
//
// A Params value is immutable once constructed and may be shared freely
// between goroutines. The presets returned by this package are shared
// process-wide; callers must not modify their fields. Use Clone to obtain
// a private copy.
type Params struct {
	Name   string
	P      *big.Int // field prime
	A, B   *big.Int // curve coefficients
	N      *big.Int // order of G
	Gx, Gy *big.Int // base point
}

// ByteLen is the fixed width, in bytes, of an encoded field element.
func (c *Params) ByteLen() int {
	return (c.P.BitLen() + 7) / 8
}

// ScalarByteLen is the fixed width, in bytes, of an encoded scalar.
func (c *Params) ScalarByteLen() int {
	return (c.N.BitLen() + 7) / 8
}

// Generator returns the base point G.
func (c *Params) Generator() Point {
	return NewPoint(c.Gx, c.Gy)
}

// Clone returns a deep copy of c.
func (c *Params) Clone() *Params {
	return &Params{
		Name: c.Name,
		P:    new(big.Int).Set(c.P),
		A:    new(big.Int).Set(c.A),
		B:    new(big.Int).Set(c.B),
		N:    new(big.Int).Set(c.N),
		Gx:   new(big.Int).Set(c.Gx),
		Gy:   new(big.Int).Set(c.Gy),
	}
}

// Equal reports whether c and o describe the same curve and base point.
func (c *Params) Equal(o *Params) bool {
	if c == o {
		return true
	}
	if c == nil || o == nil {
		return false
	}
	return c.P.Cmp(o.P) == 0 && c.A.Cmp(o.A) == 0 && c.B.Cmp(o.B) == 0 &&
		c.N.Cmp(o.N) == 0 && c.Gx.Cmp(o.Gx) == 0 && c.Gy.Cmp(o.Gy) == 0
}

func (c *Params) String() string {
	return c.Name
}

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curves: invalid hex constant " + s)
	}
	return v
}

var (
	sm2P256 = &Params{
		Name: "sm2p256v1",
		P:    mustHex("FFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF00000000FFFFFFFFFFFFFFFF"),
		A:    mustHex("FFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF00000000FFFFFFFFFFFFFFFC"),
		B:    mustHex("28E9FA9E9D9F5E344D5A9E4BCF6509A7F39789F515AB8F92DDBCBD414D940E93"),
		N:    mustHex("FFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFF7203DF6B21C6052B53BBF40939D54123"),
		Gx:   mustHex("32C4AE2C1F1981195F9904466A39C9948FE30BBFF2660BE1715A4589334C74C7"),
		Gy:   mustHex("BC3736A2F4F6779C59BDCEE36B692153D0A9877CC62A474002DF32E52139F0A0"),
	}

	// The 256-bit prime-field example curve from GM/T 0003 part 5.
	sm2Test = &Params{
		Name: "sm2-test",
		P:    mustHex("8542D69E4C044F18E8B92435BF6FF7DE457283915C45517D722EDB8B08F1DFC3"),
		A:    mustHex("787968B4FA32C3FD2417842E73BBFEFF2F3C848B6831D7E0EC65228B3937E498"),
		B:    mustHex("63E4C6D3B23B0C849CF84241484BFE48F61D59A5B16BA06E6E12D1DA27C5249A"),
		N:    mustHex("8542D69E4C044F18E8B92435BF6FF7DD297720630485628D5AE74EE7C32E79B7"),
		Gx:   mustHex("421DEBD61B62EAB6746434EBC3CC315E32220B3BADD50BDC4C4E6C147FEDD43D"),
		Gy:   mustHex("0680512BCBB42C07D47349D2153B70C4E5D7FDFCBFA36EA1A85841B9E46E09A2"),
	}

	secp256k1Params = &Params{
		Name: "secp256k1",
		P:    mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F"),
		A:    new(big.Int),
		B:    big.NewInt(7),
		N:    mustHex("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141"),
		Gx:   mustHex("79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798"),
		Gy:   mustHex("483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8"),
	}
)

// SM2P256 returns the recommended SM2 curve (sm2p256v1).
func SM2P256() *Params { return sm2P256 }

// SM2Test returns the GM/T 0003 example curve used by the published test
// vectors.
func SM2Test() *Params { return sm2Test }

// Secp256k1 returns the secp256k1 parameters.
func Secp256k1() *Params { return secp256k1Params }

// ByName looks up a preset by name. Matching is case-insensitive and
// ignores '-' and '_'.
func ByName(name string) (*Params, error) {
	switch normalize(name) {
	case "sm2p256v1", "sm2", "sm2p256":
		return sm2P256, nil
	case "sm2test":
		return sm2Test, nil
	case "secp256k1":
		return secp256k1Params, nil
	}
	return nil, fmt.Errorf("curves: unknown curve %q", name)
}

func normalize(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "")
	return strings.ReplaceAll(name, "_", "")
}
