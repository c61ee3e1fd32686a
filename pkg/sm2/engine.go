package sm2

import (
	"fmt"
	"hash"
	"io"
	"math/big"

	"github.com/smallyu/go-sm2/internal/crypto/curves"
	"github.com/smallyu/go-sm2/internal/crypto/kdf"
	"github.com/smallyu/go-sm2/internal/crypto/scalarmult"
	"github.com/smallyu/go-sm2/internal/logging"
)

type (
	// Params are the curve domain parameters.
	Params = curves.Params

	// Point is an affine curve point or the point at infinity.
	Point = curves.Point
)

var one = big.NewInt(1)

// Curve returns a copy of the named domain parameters.
func Curve(name string) (*Params, error) {
	c, err := curves.ByName(name)
	if err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Engine performs SM2 signing, verification, encryption and decryption over
// one set of domain parameters. An Engine is immutable after New and safe
// for concurrent use; its only internal state is the read-mostly table
// cache.
type Engine struct {
	cfg       Config
	params    *Params
	mult      scalarmult.Multiplier
	baseTable *scalarmult.Table
	kdf       *kdf.KDF
	newHash   func() hash.Hash
	rand      io.Reader
	log       logging.Logger
}

// New builds an Engine from cfg. Nil Hash, Rand and Logger fields fall back
// to the defaults.
func New(cfg Config) (*Engine, error) {
	def := DefaultConfig()
	if cfg.Hash == nil {
		cfg.Hash = def.Hash
	}
	if cfg.Rand == nil {
		cfg.Rand = def.Rand
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params, _ := curves.ByName(cfg.Curve)
	method, _ := scalarmult.ParseMethod(cfg.Method)

	cache, err := scalarmult.NewTableCache(cfg.TableCacheSize)
	if err != nil {
		return nil, makeError(ErrInvalidConfig, err.Error())
	}
	mult, err := scalarmult.New(params, method,
		scalarmult.WithWindow(cfg.WindowSize),
		scalarmult.WithTableCache(cache))
	if err != nil {
		return nil, makeError(ErrInvalidConfig, err.Error())
	}

	e := &Engine{
		cfg:     cfg,
		params:  params,
		mult:    mult,
		kdf:     kdf.New(cfg.Hash, kdf.WithWorkers(cfg.KDFWorkers)),
		newHash: cfg.Hash,
		rand:    cfg.Rand,
		log:     cfg.Logger.With("curve", params.Name, "method", method.String()),
	}
	if method == scalarmult.Windowed {
		e.baseTable = scalarmult.Precompute(params, params.Generator(), cfg.BaseWindowSize)
	}
	return e, nil
}

// Params returns a copy of the engine's domain parameters. Modifying it
// does not affect the engine.
func (e *Engine) Params() *Params {
	return e.params.Clone()
}

// Method returns the configured scalar multiplication algorithm.
func (e *Engine) Method() scalarmult.Method {
	return e.mult.Method()
}

// ScalarMult returns k·p with the configured algorithm. It panics if p is
// neither the point at infinity nor on the engine's curve.
func (e *Engine) ScalarMult(k *big.Int, p Point) Point {
	if !p.IsInfinity() && !e.params.IsOnCurve(p) {
		panic("sm2: ScalarMult: point is not on " + e.params.Name)
	}
	return e.mult.ScalarMult(k, p)
}

// ScalarBaseMult returns k·G. The windowed method uses the base table built
// at construction.
func (e *Engine) ScalarBaseMult(k *big.Int) Point {
	if e.baseTable != nil {
		return e.baseTable.ScalarMult(k)
	}
	return e.mult.ScalarMult(k, e.params.Generator())
}

// randScalar draws a uniform-looking scalar in [1, n-1] by reducing
// ScalarByteLen+8 random bytes modulo n-1.
func (e *Engine) randScalar() (*big.Int, error) {
	b := make([]byte, e.params.ScalarByteLen()+8)
	if _, err := io.ReadFull(e.rand, b); err != nil {
		return nil, Error{Err: ErrRandomSource, Description: fmt.Sprintf("read random scalar: %v", err)}
	}

	nMinus1 := new(big.Int).Sub(e.params.N, one)
	k := new(big.Int).SetBytes(b)
	k.Mod(k, nMinus1)
	return k.Add(k, one), nil
}

// retry runs attempt until it succeeds or fails with a condition that fresh
// randomness cannot fix. Attempts are bounded by Config.MaxAttempts when it
// is positive.
func (e *Engine) retry(op string, attempt func() error) error {
	for i := 1; e.cfg.MaxAttempts == 0 || i <= e.cfg.MaxAttempts; i++ {
		err := attempt()
		if err == nil || !retryable(err) {
			return err
		}
		e.log.Debug("retrying with fresh randomness", "op", op, "attempt", i, "reason", err.Error())
	}

	e.log.Warn("retry limit exceeded", "op", op, "max_attempts", e.cfg.MaxAttempts)
	return makeError(ErrRetryLimitExceeded,
		fmt.Sprintf("%s: no valid result after %d attempts", op, e.cfg.MaxAttempts))
}
