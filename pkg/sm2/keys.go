package sm2

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-sm2/internal/crypto/curves"
)

// PublicKey is an SM2 public key P = d·G.
type PublicKey struct {
	Params *Params
	Point
}

// Bytes returns the fixed-width x‖y encoding of the key.
func (pub *PublicKey) Bytes() []byte {
	return pub.Params.Marshal(pub.Point)
}

// PrivateKey is an SM2 private key. D lies in [1, n-2] so that 1+d is
// invertible modulo n.
type PrivateKey struct {
	PublicKey
	D *big.Int
}

// Public returns the public half of the key pair.
func (priv *PrivateKey) Public() *PublicKey {
	return &priv.PublicKey
}

// Bytes returns the fixed-width big-endian encoding of D.
func (priv *PrivateKey) Bytes() []byte {
	return priv.D.FillBytes(make([]byte, priv.Params.ScalarByteLen()))
}

// GenerateKey draws a fresh private key from the configured random source.
// Draws of n-1 are discarded, within the Config.MaxAttempts bound.
func (e *Engine) GenerateKey() (*PrivateKey, error) {
	nMinus2 := new(big.Int).Sub(e.params.N, big.NewInt(2))

	var priv *PrivateKey
	err := e.retry("generate key", func() error {
		d, err := e.randScalar()
		if err != nil {
			return err
		}
		// randScalar covers [1, n-1]; 1+d has no inverse for d = n-1.
		if d.Cmp(nMinus2) > 0 {
			return makeError(ErrDegenerateResult, "private key n-1")
		}
		priv = e.newPrivateKey(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return priv, nil
}

// NewPrivateKey builds a key pair from an existing private scalar.
func (e *Engine) NewPrivateKey(d *big.Int) (*PrivateKey, error) {
	nMinus2 := new(big.Int).Sub(e.params.N, big.NewInt(2))
	if d == nil || d.Sign() <= 0 || d.Cmp(nMinus2) > 0 {
		return nil, makeError(ErrInvalidPrivateKey, "private key outside [1, n-2]")
	}
	return e.newPrivateKey(new(big.Int).Set(d)), nil
}

// ParsePrivateKey decodes a big-endian private scalar.
func (e *Engine) ParsePrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != e.params.ScalarByteLen() {
		return nil, makeError(ErrInvalidPrivateKey,
			fmt.Sprintf("private key must be %d bytes, got %d", e.params.ScalarByteLen(), len(b)))
	}
	return e.NewPrivateKey(new(big.Int).SetBytes(b))
}

func (e *Engine) newPrivateKey(d *big.Int) *PrivateKey {
	return &PrivateKey{
		PublicKey: PublicKey{Params: e.params.Clone(), Point: e.ScalarBaseMult(d)},
		D:         d,
	}
}

// NewPublicKey wraps an affine point as a public key after checking curve
// membership.
func (e *Engine) NewPublicKey(p Point) (*PublicKey, error) {
	if !e.params.IsOnCurve(p) {
		return nil, makeError(ErrInvalidPoint, "public key is not on the curve")
	}
	return &PublicKey{Params: e.params.Clone(), Point: curves.NewPoint(p.X, p.Y)}, nil
}

// ParsePublicKey decodes an x‖y public key encoding.
func (e *Engine) ParsePublicKey(b []byte) (*PublicKey, error) {
	p, err := e.params.Unmarshal(b)
	if err != nil {
		return nil, Error{Err: ErrInvalidPoint, Description: fmt.Sprintf("parse public key: %v", err)}
	}
	return &PublicKey{Params: e.params.Clone(), Point: p}, nil
}

// checkPublicKey reports whether pub is a proper point on this engine's
// curve. A key tagged with different domain parameters is rejected; an
// untagged key is judged by its point alone.
func (e *Engine) checkPublicKey(pub *PublicKey) error {
	if pub == nil {
		return makeError(ErrInvalidPoint, "missing public key")
	}
	if pub.Params != nil && !pub.Params.Equal(e.params) {
		return makeError(ErrInvalidPoint,
			fmt.Sprintf("public key belongs to %s, engine uses %s", pub.Params.Name, e.params.Name))
	}
	if !e.params.IsOnCurve(pub.Point) {
		return makeError(ErrInvalidPoint, "public key is not on the curve")
	}
	return nil
}
