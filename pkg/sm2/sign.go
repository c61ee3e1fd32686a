package sm2

import (
	"math/big"

	"github.com/smallyu/go-sm2/internal/logging"
)

// Sign signs msg under priv, with z the signer's identity digest from
// ComputeZ. A fresh nonce is drawn for every attempt; attempts that yield
// r = 0, r + k = n or s = 0 are discarded and retried.
func (e *Engine) Sign(priv *PrivateKey, z, msg []byte) (*Signature, error) {
	if err := e.checkPrivateKey(priv); err != nil {
		return nil, err
	}
	digest := e.hashToInt(z, msg)

	var sig *Signature
	err := e.retry("sign", func() error {
		k, err := e.randScalar()
		if err != nil {
			return err
		}
		sig, err = e.sign(priv, digest, k)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sig, nil
}

// SignWithID computes Z for uid and signs msg.
func (e *Engine) SignWithID(priv *PrivateKey, uid, msg []byte) (*Signature, error) {
	z, err := e.ComputeZ(uid, &priv.PublicKey)
	if err != nil {
		return nil, err
	}
	return e.Sign(priv, z, msg)
}

// SignWithFixedNonce signs with a caller-chosen nonce k and performs no
// retry: a nonce outside [1, n-1] is ErrInvalidNonce, and nonces the
// signing equations reject surface as ErrZeroSignatureComponent or
// ErrBoundaryViolation. It only works on an engine built with
// AllowFixedNonce and exists for known-answer and fault-injection tests.
// Reusing k across two messages reveals the private key.
func (e *Engine) SignWithFixedNonce(priv *PrivateKey, z, msg []byte, k *big.Int) (*Signature, error) {
	if !e.cfg.AllowFixedNonce {
		return nil, makeError(ErrFixedNonceDisabled, "fixed-nonce signing is disabled")
	}
	if err := e.checkPrivateKey(priv); err != nil {
		return nil, err
	}
	if k == nil || k.Sign() <= 0 || k.Cmp(e.params.N) >= 0 {
		return nil, makeError(ErrInvalidNonce, "nonce outside [1, n-1]")
	}
	e.log.Warn("signing with a fixed nonce", logging.Redacted("nonce"))
	return e.sign(priv, e.hashToInt(z, msg), k)
}

// sign runs one signing attempt with nonce k.
func (e *Engine) sign(priv *PrivateKey, digest, k *big.Int) (*Signature, error) {
	n := e.params.N

	x1 := e.ScalarBaseMult(k).X
	r := new(big.Int).Add(digest, x1)
	r.Mod(r, n)
	if r.Sign() == 0 {
		return nil, makeError(ErrZeroSignatureComponent, "r = 0")
	}
	rk := new(big.Int).Add(r, k)
	if rk.Cmp(n) == 0 {
		return nil, makeError(ErrBoundaryViolation, "r + k = n")
	}

	// s = (1 + d)⁻¹ · (k - r·d) mod n
	dInv := new(big.Int).Add(priv.D, one)
	dInv.ModInverse(dInv, n)
	s := new(big.Int).Mul(r, priv.D)
	s.Sub(k, s)
	s.Mul(s, dInv)
	s.Mod(s, n)
	if s.Sign() == 0 {
		return nil, makeError(ErrZeroSignatureComponent, "s = 0")
	}
	return &Signature{R: r, S: s}, nil
}

// Verify reports whether sig is a valid signature of msg by pub with
// identity digest z. It fails closed on any malformed input.
func (e *Engine) Verify(pub *PublicKey, z, msg []byte, sig *Signature) bool {
	if sig == nil || e.checkPublicKey(pub) != nil {
		return false
	}
	n := e.params.N
	if !inRange(sig.R, n) || !inRange(sig.S, n) {
		return false
	}

	t := new(big.Int).Add(sig.R, sig.S)
	t.Mod(t, n)
	if t.Sign() == 0 {
		return false
	}

	pt := e.params.Add(e.ScalarBaseMult(sig.S), e.ScalarMult(t, pub.Point))
	if pt.IsInfinity() {
		return false
	}

	r := e.hashToInt(z, msg)
	r.Add(r, pt.X)
	r.Mod(r, n)
	return r.Cmp(sig.R) == 0
}

// VerifyWithID computes Z for uid and verifies sig.
func (e *Engine) VerifyWithID(pub *PublicKey, uid, msg []byte, sig *Signature) bool {
	z, err := e.ComputeZ(uid, pub)
	if err != nil {
		return false
	}
	return e.Verify(pub, z, msg, sig)
}

// VerifyRequest is one item of a BatchVerify call.
type VerifyRequest struct {
	PublicKey *PublicKey
	Z         []byte
	Message   []byte
	Signature *Signature
}

// BatchVerify verifies each request independently and returns the results
// in request order.
func (e *Engine) BatchVerify(reqs []VerifyRequest) []bool {
	out := make([]bool, len(reqs))
	for i, req := range reqs {
		out[i] = e.Verify(req.PublicKey, req.Z, req.Message, req.Signature)
	}
	return out
}

func (e *Engine) checkPrivateKey(priv *PrivateKey) error {
	if priv == nil || priv.D == nil {
		return makeError(ErrInvalidPrivateKey, "missing private key")
	}
	nMinus2 := new(big.Int).Sub(e.params.N, big.NewInt(2))
	if priv.D.Sign() <= 0 || priv.D.Cmp(nMinus2) > 0 {
		return makeError(ErrInvalidPrivateKey, "private key outside [1, n-2]")
	}
	return nil
}

// inRange reports whether 1 <= v <= n-1.
func inRange(v, n *big.Int) bool {
	return v != nil && v.Sign() > 0 && v.Cmp(n) < 0
}
