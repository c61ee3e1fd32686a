package benchmark

import (
	"bytes"
	"fmt"
	"math/big"
	"testing"

	"github.com/smallyu/go-sm2/internal/crypto/curves"
	"github.com/smallyu/go-sm2/internal/crypto/kdf"
	"github.com/smallyu/go-sm2/internal/crypto/scalarmult"
	"github.com/smallyu/go-sm2/internal/logging"
	"github.com/smallyu/go-sm2/pkg/sm2"
	"github.com/tjfoc/gmsm/sm3"
)

var methods = []string{"binary", "windowed", "ladder"}

// setupEngine builds an engine on the recommended curve with the given
// scalar multiplication method and a fresh key pair.
func setupEngine(b *testing.B, method string) (*sm2.Engine, *sm2.PrivateKey) {
	b.Helper()
	cfg := sm2.DefaultConfig()
	cfg.Method = method
	cfg.Logger = logging.Nop()
	e, err := sm2.New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	priv, err := e.GenerateKey()
	if err != nil {
		b.Fatal(err)
	}
	return e, priv
}

// BenchmarkScalarMult benchmarks k·P for an arbitrary point with each
// method. The windowed method reuses its cached table after the first call.
func BenchmarkScalarMult(b *testing.B) {
	c := curves.SM2P256()
	k, _ := new(big.Int).SetString("128B2FA8BD433C6C068C8D803DFF79792A519A55171B1B650C23661D15897263", 16)
	p := c.Double(c.Generator())

	for _, name := range methods {
		method, err := scalarmult.ParseMethod(name)
		if err != nil {
			b.Fatal(err)
		}
		m, err := scalarmult.New(c, method)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				m.ScalarMult(k, p)
			}
		})
	}
}

// BenchmarkPrecompute benchmarks table construction for each window width.
func BenchmarkPrecompute(b *testing.B) {
	c := curves.SM2P256()
	for w := scalarmult.MinWindow; w <= scalarmult.MaxWindow; w++ {
		b.Run(fmt.Sprintf("w=%d", w), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				scalarmult.Precompute(c, c.Generator(), w)
			}
		})
	}
}

// BenchmarkKDF benchmarks keystream derivation with and without parallel
// rounds.
func BenchmarkKDF(b *testing.B) {
	seed := bytes.Repeat([]byte{0x5A}, 64)
	for _, workers := range []int{1, 4} {
		k := kdf.New(sm3.New, kdf.WithWorkers(workers))
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				k.Derive(seed, 8*4096)
			}
		})
	}
}

// BenchmarkSign benchmarks signing with each method.
func BenchmarkSign(b *testing.B) {
	for _, method := range methods {
		b.Run(method, func(b *testing.B) {
			e, priv := setupEngine(b, method)
			msg := []byte("benchmark message")

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := e.SignWithID(priv, sm2.DefaultUID, msg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkVerify benchmarks verification with each method.
func BenchmarkVerify(b *testing.B) {
	for _, method := range methods {
		b.Run(method, func(b *testing.B) {
			e, priv := setupEngine(b, method)
			msg := []byte("benchmark message")
			sig, err := e.SignWithID(priv, sm2.DefaultUID, msg)
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if !e.VerifyWithID(priv.Public(), sm2.DefaultUID, msg, sig) {
					b.Fatal("Verify failed")
				}
			}
		})
	}
}

// BenchmarkEncrypt benchmarks encryption of a 1 KiB message.
func BenchmarkEncrypt(b *testing.B) {
	msg := bytes.Repeat([]byte("x"), 1024)
	for _, method := range methods {
		b.Run(method, func(b *testing.B) {
			e, priv := setupEngine(b, method)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := e.Encrypt(priv.Public(), msg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkDecrypt benchmarks decryption of a 1 KiB message.
func BenchmarkDecrypt(b *testing.B) {
	msg := bytes.Repeat([]byte("x"), 1024)
	for _, method := range methods {
		b.Run(method, func(b *testing.B) {
			e, priv := setupEngine(b, method)
			ct, err := e.Encrypt(priv.Public(), msg)
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := e.Decrypt(priv, ct); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEncryptLarge benchmarks chunked encryption of 64 KiB.
func BenchmarkEncryptLarge(b *testing.B) {
	data := bytes.Repeat([]byte("y"), 64*1024)
	e, priv := setupEngine(b, "windowed")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.EncryptLarge(priv.Public(), data); err != nil {
			b.Fatal(err)
		}
	}
}
