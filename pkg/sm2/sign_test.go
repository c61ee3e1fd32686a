package sm2

import (
	"fmt"
	"io"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	katK = "6CB28D99385C175C94F94E934817663FC176D925DD72B727260DBAAE1FB2F96F"
	katR = "40f1ec59f793d9f49e09dcef49130d4194f79fb1eed2caa55bacdb49c4e755d1"
	katS = "6fc6dac32c5d5cf10c77dfb20f7c2eb667a457872fb09ec56327a67ec7deebe7"
)

func TestSignKnownAnswer(t *testing.T) {
	e := testEngine(t, withFixedNonce)
	priv := aliceKey(t, e)
	z, err := e.ComputeZ([]byte(aliceUID), priv.Public())
	require.NoError(t, err)

	msg := []byte("message digest")
	assert.Equal(t, "b524f552cd82b8b028476e005c377fb19a87e6fc682d48bb5d42e3d9b9effe76",
		fmt.Sprintf("%064x", e.hashToInt(z, msg)))

	sig, err := e.SignWithFixedNonce(priv, z, msg, hexInt(katK))
	require.NoError(t, err)
	assert.Equal(t, 0, sig.R.Cmp(hexInt(katR)))
	assert.Equal(t, 0, sig.S.Cmp(hexInt(katS)))
	assert.True(t, e.Verify(priv.Public(), z, msg, sig))
}

func TestSignVerifyAllMethods(t *testing.T) {
	for _, m := range []string{"binary", "windowed", "ladder"} {
		t.Run(m, func(t *testing.T) {
			e := testEngine(t, withMethod(m))
			priv, err := e.GenerateKey()
			require.NoError(t, err)
			pub := priv.Public()

			for i := 0; i < 5; i++ {
				msg := []byte(fmt.Sprintf("message %d", i))
				sig, err := e.SignWithID(priv, []byte(aliceUID), msg)
				require.NoError(t, err)
				assert.True(t, e.VerifyWithID(pub, []byte(aliceUID), msg, sig))

				assert.False(t, e.VerifyWithID(pub, []byte(aliceUID), []byte("other"), sig))
				assert.False(t, e.VerifyWithID(pub, []byte("BOB"), msg, sig))
			}
		})
	}
}

func TestSignaturesVerifyAcrossMethods(t *testing.T) {
	signer := testEngine(t, withMethod("ladder"))
	verifier := testEngine(t, withMethod("windowed"))
	priv := aliceKey(t, signer)

	sig, err := signer.SignWithID(priv, []byte(aliceUID), []byte("abc"))
	require.NoError(t, err)
	assert.True(t, verifier.VerifyWithID(priv.Public(), []byte(aliceUID), []byte("abc"), sig))
}

func TestSignFreshNonces(t *testing.T) {
	e := testEngine(t)
	priv := aliceKey(t, e)
	z := []byte("z")

	a, err := e.Sign(priv, z, []byte("same"))
	require.NoError(t, err)
	b, err := e.Sign(priv, z, []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, 0, a.R.Cmp(b.R))
}

func TestVerifyFailsClosed(t *testing.T) {
	e := testEngine(t)
	priv := aliceKey(t, e)
	pub := priv.Public()
	z := []byte("z")
	msg := []byte("msg")
	sig, err := e.Sign(priv, z, msg)
	require.NoError(t, err)
	n := e.Params().N

	tests := []struct {
		name string
		pub  *PublicKey
		sig  *Signature
	}{
		{"nil signature", pub, nil},
		{"nil r", pub, &Signature{S: sig.S}},
		{"zero r", pub, &Signature{R: big.NewInt(0), S: sig.S}},
		{"r = n", pub, &Signature{R: new(big.Int).Set(n), S: sig.S}},
		{"negative s", pub, &Signature{R: sig.R, S: big.NewInt(-1)}},
		{"s = n", pub, &Signature{R: sig.R, S: new(big.Int).Set(n)}},
		{"r + s = n", pub, &Signature{R: sig.R, S: new(big.Int).Sub(n, sig.R)}},
		{"tweaked s", pub, &Signature{R: sig.R, S: new(big.Int).Add(sig.S, one)}},
		{"nil key", nil, sig},
		{"off-curve key", &PublicKey{Params: pub.Params, Point: Point{X: pub.X, Y: new(big.Int).Add(pub.Y, one)}}, sig},
		{"infinity key", &PublicKey{Params: pub.Params}, sig},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.False(t, e.Verify(test.pub, z, msg, test.sig))
		})
	}
	assert.True(t, e.Verify(pub, z, msg, sig))
}

func TestSignRejectsBadKey(t *testing.T) {
	e := testEngine(t)
	_, err := e.Sign(nil, nil, []byte("m"))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	bad := &PrivateKey{D: new(big.Int).Sub(e.Params().N, one)}
	_, err = e.Sign(bad, nil, []byte("m"))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestSignWithFixedNonceDisabled(t *testing.T) {
	e := testEngine(t)
	priv := aliceKey(t, e)
	_, err := e.SignWithFixedNonce(priv, nil, []byte("m"), hexInt(katK))
	assert.ErrorIs(t, err, ErrFixedNonceDisabled)
}

// steerDigest returns the digest e for which signing with nonce k yields
// r = (e + x1) mod n equal to want.
func steerDigest(eng *Engine, k, want *big.Int) *big.Int {
	n := eng.params.N
	x1 := eng.ScalarBaseMult(k).X
	d := new(big.Int).Sub(want, x1)
	return d.Mod(d, n)
}

func TestSignRejectedNonces(t *testing.T) {
	base := testEngine(t, withFixedNonce)
	n := base.params.N
	d := hexInt(aliceD)
	k := hexInt(katK)

	// s = 0 when k = r·d, i.e. r = k·d⁻¹.
	rForZeroS := new(big.Int).ModInverse(d, n)
	rForZeroS.Mul(rForZeroS, k)
	rForZeroS.Mod(rForZeroS, n)

	tests := []struct {
		name  string
		wantR *big.Int
		want  ErrorKind
	}{
		{"r = 0", big.NewInt(0), ErrZeroSignatureComponent},
		{"r + k = n", new(big.Int).Sub(n, k), ErrBoundaryViolation},
		{"s = 0", rForZeroS, ErrZeroSignatureComponent},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			digest := steerDigest(base, k, test.wantR)
			e := testEngine(t, withFixedNonce, func(c *Config) {
				c.Hash = newConstHash(scalarDigest(digest))
			})
			priv := aliceKey(t, e)

			_, err := e.SignWithFixedNonce(priv, nil, []byte("m"), k)
			assert.ErrorIs(t, err, test.want)

			// Sign recovers by drawing another nonce: the steered k is
			// consumed first and the retry uses the deterministic stream.
			e.rand = io.MultiReader(bytesReader(nonceBytes(e, k)), detReader(7))
			sig, err := e.Sign(priv, nil, []byte("m"))
			require.NoError(t, err)
			assert.True(t, e.Verify(priv.Public(), nil, []byte("m"), sig))
		})
	}
}

func TestSignRetryLimit(t *testing.T) {
	k := hexInt(katK)
	base := testEngine(t)
	digest := steerDigest(base, k, big.NewInt(0))

	e := testEngine(t, func(c *Config) {
		c.Hash = newConstHash(scalarDigest(digest))
		c.MaxAttempts = 3
	})
	e.rand = bytesReader(nonceBytes(e, k), nonceBytes(e, k), nonceBytes(e, k))

	_, err := e.Sign(aliceKey(t, e), nil, []byte("m"))
	assert.ErrorIs(t, err, ErrRetryLimitExceeded)
}

func TestSignFixedNonceRange(t *testing.T) {
	e := testEngine(t, withFixedNonce)
	priv := aliceKey(t, e)
	for _, k := range []*big.Int{nil, big.NewInt(0), new(big.Int).Set(e.Params().N)} {
		_, err := e.SignWithFixedNonce(priv, nil, []byte("m"), k)
		assert.ErrorIs(t, err, ErrInvalidNonce)
		assert.False(t, retryable(err))
	}
}

func TestBatchVerify(t *testing.T) {
	e := testEngine(t)
	priv := aliceKey(t, e)
	z, err := e.ComputeZ([]byte(aliceUID), priv.Public())
	require.NoError(t, err)

	var reqs []VerifyRequest
	for i := 0; i < 4; i++ {
		msg := []byte(fmt.Sprintf("batch %d", i))
		sig, err := e.Sign(priv, z, msg)
		require.NoError(t, err)
		reqs = append(reqs, VerifyRequest{PublicKey: priv.Public(), Z: z, Message: msg, Signature: sig})
	}
	reqs[2].Message = []byte("tampered")

	assert.Equal(t, []bool{true, true, false, true}, e.BatchVerify(reqs))
	assert.Empty(t, e.BatchVerify(nil))
}
