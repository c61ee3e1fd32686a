package sm2

import (
	"bytes"
	"hash"
	"io"
	"math/big"
	mrand "math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-sm2/internal/logging"
)

// Key pair and signer identity of the GM/T 0003 signature example, on the
// 256-bit test curve.
const (
	aliceD   = "128B2FA8BD433C6C068C8D803DFF79792A519A55171B1B650C23661D15897263"
	alicePx  = "0AE4C7798AA0F119471BEE11825BE46202BB79E2A5844495E97C04FF4DF2548A"
	alicePy  = "7C0240F88F1CD4E16352A73C17B7F16F07353E53A176D684A9FE0C6BB798E857"
	aliceUID = "ALICE123@YAHOO.COM"
)

func hexInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("bad hex: " + s)
	}
	return v
}

// detReader is a reproducible randomness source for tests.
func detReader(seed uint64) io.Reader {
	var s [32]byte
	s[0] = byte(seed)
	s[1] = byte(seed >> 8)
	return mrand.NewChaCha8(s)
}

// testEngine builds an engine on the test curve with reproducible
// randomness. Options adjust the configuration before New.
func testEngine(t testing.TB, opts ...func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Curve = "sm2-test"
	cfg.Rand = detReader(1)
	cfg.Logger = logging.Nop()
	for _, opt := range opts {
		opt(&cfg)
	}
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func withMethod(m string) func(*Config) {
	return func(c *Config) { c.Method = m }
}

func withFixedNonce(c *Config) {
	c.AllowFixedNonce = true
}

func aliceKey(t testing.TB, e *Engine) *PrivateKey {
	t.Helper()
	priv, err := e.NewPrivateKey(hexInt(aliceD))
	require.NoError(t, err)
	return priv
}

// nonceBytes returns the random bytes that make randScalar yield k.
func nonceBytes(e *Engine, k *big.Int) []byte {
	v := new(big.Int).Sub(k, one)
	return v.FillBytes(make([]byte, e.params.ScalarByteLen()+8))
}

// constHash is a hash oracle whose digest is fixed regardless of input. It
// lets tests steer e = H(Z ‖ M) onto chosen values.
type constHash struct {
	digest []byte
}

func newConstHash(digest []byte) func() hash.Hash {
	return func() hash.Hash { return &constHash{digest: digest} }
}

func (h *constHash) Write(p []byte) (int, error) { return len(p), nil }
func (h *constHash) Sum(b []byte) []byte         { return append(b, h.digest...) }
func (h *constHash) Reset()                      {}
func (h *constHash) Size() int                   { return len(h.digest) }
func (h *constHash) BlockSize() int              { return 64 }

// countingHash wraps another hash and counts constructions.
type countingHash struct {
	newHash func() hash.Hash
	n       atomic.Int64
}

func (c *countingHash) New() hash.Hash {
	c.n.Add(1)
	return c.newHash()
}

// failingReader always fails.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func scalarDigest(v *big.Int) []byte {
	return v.FillBytes(make([]byte, 32))
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func bytesReader(parts ...[]byte) io.Reader {
	return bytes.NewReader(concat(parts...))
}
