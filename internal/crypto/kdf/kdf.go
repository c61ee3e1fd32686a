// Package kdf implements the counter-mode hash key derivation function used
// by SM2 encryption: Hash(Z‖ct) for a 32-bit big-endian counter ct starting
// at 1, concatenated and truncated to the requested bit length.
package kdf

import (
	"encoding/binary"
	"hash"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds the number of rounds hashed concurrently.
const DefaultWorkers = 4

// KDF derives keystreams from a shared secret. A KDF is safe for concurrent
// use.
type KDF struct {
	newHash func() hash.Hash
	size    int
	workers int
}

// Option configures a KDF.
type Option func(*KDF)

// WithWorkers sets the maximum number of rounds hashed in parallel. Values
// below 2 disable parallelism.
func WithWorkers(n int) Option {
	return func(k *KDF) { k.workers = n }
}

// New returns a KDF over the given hash constructor.
func New(newHash func() hash.Hash, opts ...Option) *KDF {
	k := &KDF{
		newHash: newHash,
		size:    newHash().Size(),
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Derive returns exactly bits bits of keystream for seed, packed MSB-first
// into ceil(bits/8) bytes with any unused trailing bits cleared.
func (k *KDF) Derive(seed []byte, bits int) []byte {
	if bits <= 0 {
		return []byte{}
	}

	rounds := (bits + 8*k.size - 1) / (8 * k.size)
	buf := make([]byte, rounds*k.size)

	if rounds == 1 || k.workers < 2 {
		h := k.newHash()
		for i := 0; i < rounds; i++ {
			k.round(h, seed, i, buf)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(min(k.workers, rounds))
		for i := 0; i < rounds; i++ {
			g.Go(func() error {
				// Each round writes only its own slot of buf, so the
				// assembled output is in counter order.
				k.round(k.newHash(), seed, i, buf)
				return nil
			})
		}
		_ = g.Wait()
	}

	out := buf[:(bits+7)/8]
	if rem := bits % 8; rem != 0 {
		out[len(out)-1] &= byte(0xFF << (8 - rem))
	}
	return out
}

// round writes Hash(seed‖ct) for ct = i+1 into slot i of buf.
func (k *KDF) round(h hash.Hash, seed []byte, i int, buf []byte) {
	var ct [4]byte
	binary.BigEndian.PutUint32(ct[:], uint32(i+1))

	h.Reset()
	h.Write(seed)
	h.Write(ct[:])
	h.Sum(buf[i*k.size : i*k.size : (i+1)*k.size])
}

// Derive is a sequential one-shot form of KDF.Derive.
func Derive(newHash func() hash.Hash, seed []byte, bits int) []byte {
	return New(newHash, WithWorkers(1)).Derive(seed, bits)
}

// IsZero reports whether every byte of b is zero. An empty keystream is not
// considered zero.
func IsZero(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}
