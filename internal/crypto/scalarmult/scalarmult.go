// Package scalarmult computes k·P on a short Weierstrass curve using one of
// three interchangeable algorithms. All algorithms produce identical
// results for identical inputs; they differ only in speed, memory and the
// regularity of their control flow.
package scalarmult

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/smallyu/go-sm2/internal/crypto/curves"
)

// Method selects a scalar multiplication algorithm.
type Method int

const (
	// Binary is right-to-left double-and-add. It branches on every scalar
	// bit and serves as the reference implementation.
	Binary Method = iota

	// Windowed scans the scalar most-significant window first and adds
	// entries from a table of precomputed multiples.
	Windowed

	// Ladder is the Montgomery ladder: one addition and one doubling per
	// bit regardless of the bit value.
	Ladder
)

const (
	DefaultWindow = 4
	MinWindow     = 1
	MaxWindow     = 8
)

func (m Method) String() string {
	switch m {
	case Binary:
		return "binary"
	case Windowed:
		return "windowed"
	case Ladder:
		return "ladder"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps a configuration string to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "binary", "double-and-add":
		return Binary, nil
	case "windowed", "window":
		return Windowed, nil
	case "ladder", "montgomery":
		return Ladder, nil
	}
	return 0, fmt.Errorf("scalarmult: unknown method %q", s)
}

// Multiplier computes k·P. k must be non-negative; reducing it modulo the
// group order is the caller's responsibility. A negative k or a P that is
// neither infinity nor on the curve panics.
type Multiplier interface {
	ScalarMult(k *big.Int, p curves.Point) curves.Point
	Method() Method
}

type options struct {
	window int
	cache  *TableCache
}

// Option configures New.
type Option func(*options)

// WithWindow sets the window width used by the Windowed method.
func WithWindow(w int) Option {
	return func(o *options) { o.window = w }
}

// WithTableCache shares a table cache between Windowed multipliers.
func WithTableCache(c *TableCache) Option {
	return func(o *options) { o.cache = c }
}

// New returns a Multiplier for the given curve and method.
func New(curve *curves.Params, method Method, opts ...Option) (Multiplier, error) {
	o := options{window: DefaultWindow}
	for _, opt := range opts {
		opt(&o)
	}

	switch method {
	case Binary:
		return &binaryMult{curve: curve}, nil
	case Ladder:
		return &ladderMult{curve: curve}, nil
	case Windowed:
		if o.window < MinWindow || o.window > MaxWindow {
			return nil, fmt.Errorf("scalarmult: window %d out of range [%d, %d]", o.window, MinWindow, MaxWindow)
		}
		if o.cache == nil {
			var err error
			o.cache, err = NewTableCache(DefaultCacheSize)
			if err != nil {
				return nil, err
			}
		}
		return &windowedMult{curve: curve, window: o.window, cache: o.cache}, nil
	}
	return nil, fmt.Errorf("scalarmult: unsupported method %v", method)
}

// trivial handles the inputs every algorithm maps to infinity and rejects
// negative scalars.
func trivial(curve *curves.Params, k *big.Int, p curves.Point) bool {
	if k.Sign() < 0 {
		panic("scalarmult: negative scalar")
	}
	mustBeOnCurve(curve, p)
	return k.Sign() == 0 || p.IsInfinity()
}

func mustBeOnCurve(curve *curves.Params, p curves.Point) {
	if !p.IsInfinity() && !curve.IsOnCurve(p) {
		panic(fmt.Sprintf("scalarmult: point is not on %s", curve))
	}
}
