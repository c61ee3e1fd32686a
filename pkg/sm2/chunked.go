package sm2

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// EncryptLarge splits data into Config.ChunkSize pieces and encrypts each
// one independently with its own ephemeral scalar. Empty data yields a
// single empty chunk.
func (e *Engine) EncryptLarge(pub *PublicKey, data []byte) ([]*Ciphertext, error) {
	size := e.cfg.ChunkSize
	cts := make([]*Ciphertext, 0, len(data)/size+1)
	for off := 0; off == 0 || off < len(data); off += size {
		end := min(off+size, len(data))
		ct, err := e.Encrypt(pub, data[off:end])
		if err != nil {
			return nil, fmt.Errorf("sm2: encrypt chunk %d: %w", len(cts), err)
		}
		cts = append(cts, ct)
	}
	return cts, nil
}

// DecryptLarge decrypts every chunk and concatenates the plaintexts in
// order. A failure in any chunk fails the whole payload.
func (e *Engine) DecryptLarge(priv *PrivateKey, cts []*Ciphertext) ([]byte, error) {
	if len(cts) == 0 {
		return nil, makeError(ErrInvalidCiphertext, "no chunks")
	}
	var out []byte
	for i, ct := range cts {
		msg, err := e.Decrypt(priv, ct)
		if err != nil {
			clear(out)
			return nil, fmt.Errorf("sm2: decrypt chunk %d: %w", i, err)
		}
		out = append(out, msg...)
	}
	return out, nil
}

// MarshalChunks frames a chunk sequence as a uint32 chunk count followed by
// each chunk's Bytes form behind a uint32 length prefix.
func (e *Engine) MarshalChunks(cts []*Ciphertext) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint32(uint32(len(cts)))
	for _, ct := range cts {
		b.AddUint32LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes(ct.Bytes(e.params))
		})
	}
	return b.Bytes()
}

// ParseChunks decodes the framing produced by MarshalChunks.
func (e *Engine) ParseChunks(b []byte) ([]*Ciphertext, error) {
	var (
		count uint32
		input = cryptobyte.String(b)
	)
	if !input.ReadUint32(&count) {
		return nil, makeError(ErrInvalidCiphertext, "truncated chunk count")
	}

	var cts []*Ciphertext
	for i := uint32(0); i < count; i++ {
		var (
			n     uint32
			chunk []byte
		)
		if !input.ReadUint32(&n) || !input.ReadBytes(&chunk, int(n)) {
			return nil, makeError(ErrInvalidCiphertext, fmt.Sprintf("truncated chunk %d", i))
		}
		ct, err := e.ParseCiphertext(chunk)
		if err != nil {
			return nil, fmt.Errorf("sm2: parse chunk %d: %w", i, err)
		}
		cts = append(cts, ct)
	}
	if !input.Empty() {
		return nil, makeError(ErrInvalidCiphertext, "trailing data after chunks")
	}
	return cts, nil
}
