package sm2

import (
	"math/big"

	"github.com/smallyu/go-sm2/internal/crypto/commitment"
	"github.com/smallyu/go-sm2/internal/crypto/kdf"
)

// Encrypt encrypts msg to pub. Each attempt draws a fresh ephemeral scalar
// k; attempts where k·P is the point at infinity or the keystream is all
// zero are discarded and retried.
func (e *Engine) Encrypt(pub *PublicKey, msg []byte) (*Ciphertext, error) {
	if err := e.checkPublicKey(pub); err != nil {
		return nil, err
	}

	var ct *Ciphertext
	err := e.retry("encrypt", func() error {
		k, err := e.randScalar()
		if err != nil {
			return err
		}
		ct, err = e.encrypt(pub, msg, k)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ct, nil
}

func (e *Engine) encrypt(pub *PublicKey, msg []byte, k *big.Int) (*Ciphertext, error) {
	c1 := e.ScalarBaseMult(k)
	shared := e.ScalarMult(k, pub.Point)
	if shared.IsInfinity() {
		return nil, makeError(ErrDegenerateResult, "k·P is the point at infinity")
	}

	seed, x2, y2 := e.sharedSecret(shared)
	t := e.kdf.Derive(seed, len(msg)*8)
	if kdf.IsZero(t) {
		return nil, makeError(ErrZeroKeystream, "keystream is all zero")
	}

	c2 := make([]byte, len(msg))
	for i := range msg {
		c2[i] = msg[i] ^ t[i]
	}
	return &Ciphertext{
		C1: c1,
		C2: c2,
		C3: commitment.Sum(e.newHash, x2, msg, y2),
	}, nil
}

// Decrypt recovers the plaintext of ct with priv. No plaintext is returned
// unless the C3 tag matches.
func (e *Engine) Decrypt(priv *PrivateKey, ct *Ciphertext) ([]byte, error) {
	if err := e.checkPrivateKey(priv); err != nil {
		return nil, err
	}
	if ct == nil {
		return nil, makeError(ErrInvalidCiphertext, "missing ciphertext")
	}
	if !e.params.IsOnCurve(ct.C1) {
		return nil, makeError(ErrInvalidPoint, "C1 is not on the curve")
	}

	shared := e.ScalarMult(priv.D, ct.C1)
	if shared.IsInfinity() {
		return nil, makeError(ErrDegenerateResult, "d·C1 is the point at infinity")
	}

	seed, x2, y2 := e.sharedSecret(shared)
	t := e.kdf.Derive(seed, len(ct.C2)*8)
	if kdf.IsZero(t) {
		return nil, makeError(ErrZeroKeystream, "keystream is all zero")
	}

	msg := make([]byte, len(ct.C2))
	for i := range ct.C2 {
		msg[i] = ct.C2[i] ^ t[i]
	}
	if !commitment.Verify(e.newHash, ct.C3, x2, msg, y2) {
		clear(msg)
		return nil, makeError(ErrMacMismatch, "C3 does not match the decrypted message")
	}
	return msg, nil
}

// sharedSecret returns the KDF seed x2‖y2 for the shared point along with
// views of its two halves.
func (e *Engine) sharedSecret(p Point) (seed, x2, y2 []byte) {
	seed = e.params.Marshal(p)
	size := e.params.ByteLen()
	return seed, seed[:size], seed[size:]
}
