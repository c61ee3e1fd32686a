// Package kreuse recovers signing keys from signatures whose nonce was
// reused or leaked. It exists to demonstrate, in regression tests and
// demos, why SM2 and ECDSA nonces must be fresh and secret.
package kreuse

import (
	"math/big"

	"github.com/smallyu/go-sm2/pkg/sm2"
)

func impossible(desc string) error {
	return sm2.Error{Err: sm2.ErrRecoveryImpossible, Description: "kreuse: " + desc}
}

// RecoverFromReuse recovers the SM2 private key from two signatures over
// different messages made with the same nonce k:
//
//	d = (s1 - s2) · (s2 + r2 - s1 - r1)⁻¹ mod n
//
// A zero denominator means the pair does not determine d and is reported as
// ErrRecoveryImpossible.
func RecoverFromReuse(params *sm2.Params, sig1, sig2 *sm2.Signature) (*big.Int, error) {
	if sig1 == nil || sig2 == nil {
		return nil, impossible("missing signature")
	}
	n := params.N

	num := new(big.Int).Sub(sig1.S, sig2.S)
	num.Mod(num, n)

	den := new(big.Int).Add(sig2.S, sig2.R)
	den.Sub(den, sig1.S)
	den.Sub(den, sig1.R)
	den.Mod(den, n)
	if den.Sign() == 0 {
		return nil, impossible("s2 + r2 - s1 - r1 is zero mod n")
	}

	d := den.ModInverse(den, n)
	d.Mul(d, num)
	return d.Mod(d, n), nil
}

// RecoverFromLeakedNonce recovers the SM2 private key from one signature
// and the nonce it was made with:
//
//	d = (k - s) · (s + r)⁻¹ mod n
func RecoverFromLeakedNonce(params *sm2.Params, sig *sm2.Signature, k *big.Int) (*big.Int, error) {
	if sig == nil || k == nil {
		return nil, impossible("missing signature or nonce")
	}
	n := params.N

	den := new(big.Int).Add(sig.S, sig.R)
	den.Mod(den, n)
	if den.Sign() == 0 {
		return nil, impossible("s + r is zero mod n")
	}

	num := new(big.Int).Sub(k, sig.S)
	num.Mod(num, n)

	d := den.ModInverse(den, n)
	d.Mul(d, num)
	return d.Mod(d, n), nil
}
