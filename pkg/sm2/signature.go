package sm2

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Signature is an SM2 signature (r, s).
type Signature struct {
	R, S *big.Int
}

// Bytes returns r‖s, each left-padded to the scalar width of params.
func (sig *Signature) Bytes(params *Params) []byte {
	size := params.ScalarByteLen()
	out := make([]byte, 2*size)
	sig.R.FillBytes(out[:size])
	sig.S.FillBytes(out[size:])
	return out
}

// Hex returns the hex form of Bytes.
func (sig *Signature) Hex(params *Params) string {
	return hex.EncodeToString(sig.Bytes(params))
}

// ParseSignature decodes the fixed-width r‖s form.
func ParseSignature(params *Params, b []byte) (*Signature, error) {
	size := params.ScalarByteLen()
	if len(b) != 2*size {
		return nil, makeError(ErrInvalidSignature,
			fmt.Sprintf("signature must be %d bytes, got %d", 2*size, len(b)))
	}
	sig := &Signature{
		R: new(big.Int).SetBytes(b[:size]),
		S: new(big.Int).SetBytes(b[size:]),
	}
	if err := sig.check(params); err != nil {
		return nil, err
	}
	return sig, nil
}

// MarshalASN1 encodes the signature as SEQUENCE { r INTEGER, s INTEGER }.
func (sig *Signature) MarshalASN1() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(sig.R)
		b.AddASN1BigInt(sig.S)
	})
	return b.Bytes()
}

// ParseSignatureASN1 decodes a DER signature produced by MarshalASN1.
func ParseSignatureASN1(params *Params, der []byte) (*Signature, error) {
	var (
		r, s  = new(big.Int), new(big.Int)
		inner cryptobyte.String
	)
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, makeError(ErrInvalidSignature, "malformed ASN.1 signature")
	}
	sig := &Signature{R: r, S: s}
	if err := sig.check(params); err != nil {
		return nil, err
	}
	return sig, nil
}

func (sig *Signature) check(params *Params) error {
	if !inRange(sig.R, params.N) || !inRange(sig.S, params.N) {
		return makeError(ErrInvalidSignature, "signature component outside [1, n-1]")
	}
	return nil
}
