package sm2

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Ciphertext is an SM2 ciphertext: the ephemeral point C1 = k·G, the masked
// message C2 and the integrity tag C3.
type Ciphertext struct {
	C1 Point
	C2 []byte
	C3 []byte
}

// CiphertextHex is the hex-encoded form of a Ciphertext, suitable for JSON.
type CiphertextHex struct {
	C1 string `json:"c1"`
	C2 string `json:"c2"`
	C3 string `json:"c3"`
}

// Bytes returns C1 ‖ C2 ‖ C3, with C1 as a fixed-width x‖y point. C2's
// length is implied by the total length since C1 and C3 are fixed width.
func (ct *Ciphertext) Bytes(params *Params) []byte {
	c1 := params.Marshal(ct.C1)
	out := make([]byte, 0, len(c1)+len(ct.C2)+len(ct.C3))
	out = append(out, c1...)
	out = append(out, ct.C2...)
	return append(out, ct.C3...)
}

// Hex returns the hex encoding of each component.
func (ct *Ciphertext) Hex(params *Params) CiphertextHex {
	return CiphertextHex{
		C1: hex.EncodeToString(params.Marshal(ct.C1)),
		C2: hex.EncodeToString(ct.C2),
		C3: hex.EncodeToString(ct.C3),
	}
}

// MarshalASN1 encodes the ciphertext in the GM/T 0009 layout:
//
//	SEQUENCE { x INTEGER, y INTEGER, hash OCTET STRING, cipher OCTET STRING }
func (ct *Ciphertext) MarshalASN1() ([]byte, error) {
	if ct.C1.IsInfinity() {
		return nil, makeError(ErrInvalidCiphertext, "C1 is the point at infinity")
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(ct.C1.X)
		b.AddASN1BigInt(ct.C1.Y)
		b.AddASN1OctetString(ct.C3)
		b.AddASN1OctetString(ct.C2)
	})
	return b.Bytes()
}

// ParseCiphertext decodes the C1 ‖ C2 ‖ C3 form produced by Bytes.
func (e *Engine) ParseCiphertext(b []byte) (*Ciphertext, error) {
	pointLen := 2 * e.params.ByteLen()
	tagLen := e.newHash().Size()
	if len(b) < pointLen+tagLen {
		return nil, makeError(ErrInvalidCiphertext,
			fmt.Sprintf("ciphertext of %d bytes is shorter than C1 and C3", len(b)))
	}

	c1, err := e.params.Unmarshal(b[:pointLen])
	if err != nil {
		return nil, Error{Err: ErrInvalidPoint, Description: fmt.Sprintf("parse C1: %v", err)}
	}
	rest := b[pointLen:]
	split := len(rest) - tagLen
	return &Ciphertext{
		C1: c1,
		C2: append([]byte(nil), rest[:split]...),
		C3: append([]byte(nil), rest[split:]...),
	}, nil
}

// ParseCiphertextASN1 decodes the GM/T 0009 DER form produced by
// MarshalASN1.
func (e *Engine) ParseCiphertextASN1(der []byte) (*Ciphertext, error) {
	var (
		x, y   = new(big.Int), new(big.Int)
		c2, c3 []byte
		inner  cryptobyte.String
	)
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(x) ||
		!inner.ReadASN1Integer(y) ||
		!inner.ReadASN1Bytes(&c3, asn1.OCTET_STRING) ||
		!inner.ReadASN1Bytes(&c2, asn1.OCTET_STRING) ||
		!inner.Empty() {
		return nil, makeError(ErrInvalidCiphertext, "malformed ASN.1 ciphertext")
	}

	c1 := Point{X: x, Y: y}
	if !e.params.IsOnCurve(c1) {
		return nil, makeError(ErrInvalidPoint, "C1 is not on the curve")
	}
	if len(c3) != e.newHash().Size() {
		return nil, makeError(ErrInvalidCiphertext,
			fmt.Sprintf("C3 must be %d bytes, got %d", e.newHash().Size(), len(c3)))
	}
	return &Ciphertext{C1: c1, C2: c2, C3: c3}, nil
}

// ParseCiphertextHex decodes the hex form produced by Ciphertext.Hex. Hex
// digits are accepted in either case.
func (e *Engine) ParseCiphertextHex(h CiphertextHex) (*Ciphertext, error) {
	decode := func(name, src string) ([]byte, error) {
		b, err := hex.DecodeString(src)
		if err != nil {
			return nil, Error{Err: ErrInvalidCiphertext, Description: fmt.Sprintf("decode %s: %v", name, err)}
		}
		return b, nil
	}
	c1, err := decode("C1", h.C1)
	if err != nil {
		return nil, err
	}
	if len(c1) != 2*e.params.ByteLen() {
		return nil, makeError(ErrInvalidPoint, fmt.Sprintf("C1 must be %d bytes, got %d", 2*e.params.ByteLen(), len(c1)))
	}
	c2, err := decode("C2", h.C2)
	if err != nil {
		return nil, err
	}
	c3, err := decode("C3", h.C3)
	if err != nil {
		return nil, err
	}
	return e.ParseCiphertext(append(append(c1, c2...), c3...))
}
