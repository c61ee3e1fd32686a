package kreuse

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// ECDSASignature is a secp256k1 ECDSA signature (r, s).
type ECDSASignature struct {
	R, S *big.Int
}

// Decred converts the signature for verification with the decred ecdsa
// package.
func (sig *ECDSASignature) Decred() *ecdsa.Signature {
	var r, s secp256k1.ModNScalar
	r.SetByteSlice(sig.R.Bytes())
	s.SetByteSlice(sig.S.Bytes())
	return ecdsa.NewSignature(&r, &s)
}

// SignWithNonce produces an ECDSA signature over hash with private key d
// and the given nonce k. It is the flawed signer whose output the recovery
// functions attack, and the forger once d is known.
func SignWithNonce(d *big.Int, hash []byte, k *big.Int) (*ECDSASignature, error) {
	n := secp256k1.S256().N
	if k == nil || k.Sign() <= 0 || k.Cmp(n) >= 0 {
		return nil, impossible("nonce outside [1, n-1]")
	}

	// 1. R = k * G
	var R secp256k1.JacobianPoint
	kScalar := new(secp256k1.ModNScalar)
	kScalar.SetByteSlice(k.Bytes())
	secp256k1.ScalarBaseMultNonConst(kScalar, &R)
	R.ToAffine()

	// 2. r = R.x mod n
	rx := R.X.Bytes()
	r := new(big.Int).SetBytes(rx[:])
	r.Mod(r, n)
	if r.Sign() == 0 {
		return nil, impossible("r is zero")
	}

	// 3. s = k⁻¹ (z + r·d) mod n
	s := new(big.Int).Mul(r, d)
	s.Add(s, hashToInt(hash))
	s.Mul(s, new(big.Int).ModInverse(k, n))
	s.Mod(s, n)
	if s.Sign() == 0 {
		return nil, impossible("s is zero")
	}

	return &ECDSASignature{R: r, S: s}, nil
}

// RecoverECDSAFromLeakedNonce recovers the private key from one ECDSA
// signature and its nonce:
//
//	d = r⁻¹ · (s·k - z) mod n
func RecoverECDSAFromLeakedNonce(sig *ECDSASignature, hash []byte, k *big.Int) (*big.Int, error) {
	if sig == nil || k == nil {
		return nil, impossible("missing signature or nonce")
	}
	n := secp256k1.S256().N

	rInv := new(big.Int).ModInverse(sig.R, n)
	if rInv == nil {
		return nil, impossible("r is not invertible")
	}

	d := new(big.Int).Mul(sig.S, k)
	d.Sub(d, hashToInt(hash))
	d.Mul(d, rInv)
	return d.Mod(d, n), nil
}

// RecoverECDSAFromReuse recovers the nonce and then the private key from
// two ECDSA signatures over different hashes that share a nonce:
//
//	k = (z1 - z2) · (s1 - s2)⁻¹ mod n
func RecoverECDSAFromReuse(sig1 *ECDSASignature, hash1 []byte, sig2 *ECDSASignature, hash2 []byte) (d, k *big.Int, err error) {
	if sig1 == nil || sig2 == nil {
		return nil, nil, impossible("missing signature")
	}
	if sig1.R.Cmp(sig2.R) != 0 {
		return nil, nil, impossible("signatures do not share a nonce")
	}
	n := secp256k1.S256().N

	den := new(big.Int).Sub(sig1.S, sig2.S)
	den.Mod(den, n)
	if den.Sign() == 0 {
		return nil, nil, impossible("s1 - s2 is zero mod n")
	}

	k = new(big.Int).Sub(hashToInt(hash1), hashToInt(hash2))
	k.Mul(k, den.ModInverse(den, n))
	k.Mod(k, n)

	d, err = RecoverECDSAFromLeakedNonce(sig1, hash1, k)
	if err != nil {
		return nil, nil, err
	}
	return d, k, nil
}

// Forge signs hash with a recovered key d after checking that d matches
// pub. A fresh nonce is drawn from random, or crypto/rand when random is
// nil. The result verifies under pub with the decred ecdsa package.
func Forge(d *big.Int, pub *secp256k1.PublicKey, hash []byte, random io.Reader) (*ecdsa.Signature, error) {
	if random == nil {
		random = rand.Reader
	}

	var dScalar secp256k1.ModNScalar
	if overflow := dScalar.SetByteSlice(d.Bytes()); overflow || dScalar.IsZero() {
		return nil, impossible("recovered key outside [1, n-1]")
	}
	if !secp256k1.NewPrivateKey(&dScalar).PubKey().IsEqual(pub) {
		return nil, impossible("recovered key does not match the public key")
	}

	n := secp256k1.S256().N
	for {
		k, err := randNonce(random, n)
		if err != nil {
			return nil, err
		}
		sig, err := SignWithNonce(d, hash, k)
		if err != nil {
			// r or s came out zero; draw again.
			continue
		}
		return sig.Decred(), nil
	}
}

// randNonce returns a nonce in [1, n-1].
func randNonce(r io.Reader, n *big.Int) (*big.Int, error) {
	bound := new(big.Int).Sub(n, big.NewInt(1))
	k, err := rand.Int(r, bound)
	if err != nil {
		return nil, err
	}
	return k.Add(k, big.NewInt(1)), nil
}

// hashToInt converts a hash to an integer the way ECDSA does, keeping the
// leftmost bits when the hash is wider than the group order.
func hashToInt(hash []byte) *big.Int {
	n := secp256k1.S256().N
	orderBytes := (n.BitLen() + 7) / 8
	if len(hash) > orderBytes {
		hash = hash[:orderBytes]
	}
	z := new(big.Int).SetBytes(hash)
	if excess := len(hash)*8 - n.BitLen(); excess > 0 {
		z.Rsh(z, uint(excess))
	}
	return z
}
