package scalarmult

import (
	"fmt"
	"math/big"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/smallyu/go-sm2/internal/crypto/curves"
)

// DefaultCacheSize is the number of distinct base points whose tables a
// TableCache keeps.
const DefaultCacheSize = 64

// Table holds j·P for j in [0, 2^w). It is read-only after Precompute
// returns and may be shared between goroutines.
type Table struct {
	curve   *curves.Params
	window  int
	base    curves.Point
	entries []curves.Point
}

// Precompute builds the window table for p. Odd multiples are chained from
// 2p; even multiples are doublings of the entry at half the index.
func Precompute(curve *curves.Params, p curves.Point, window int) *Table {
	if window < MinWindow || window > MaxWindow {
		panic(fmt.Sprintf("scalarmult: window %d out of range", window))
	}
	mustBeOnCurve(curve, p)

	size := 1 << window
	entries := make([]curves.Point, size)
	entries[0] = curves.Infinity()
	if !p.IsInfinity() {
		entries[1] = curves.NewPoint(p.X, p.Y)
		if size > 2 {
			twoP := curve.Double(p)
			for i := 3; i < size; i += 2 {
				entries[i] = curve.Add(entries[i-2], twoP)
			}
			for i := 2; i < size; i += 2 {
				entries[i] = curve.Double(entries[i/2])
			}
		}
	} else {
		for i := range entries {
			entries[i] = curves.Infinity()
		}
	}

	return &Table{curve: curve, window: window, base: entries[1], entries: entries}
}

// Window returns the window width the table was built for.
func (t *Table) Window() int { return t.window }

// Base returns the point the table was built for.
func (t *Table) Base() curves.Point { return t.base }

// Entry returns j·P for j in [0, 2^w).
func (t *Table) Entry(j int) curves.Point { return t.entries[j] }

// ScalarMult computes k·P, reading the scalar in windows of up to w bits
// from the most significant end. Each bit consumed costs one doubling and
// each nonzero window one table addition.
func (t *Table) ScalarMult(k *big.Int) curves.Point {
	if trivial(t.curve, k, t.base) {
		return curves.Infinity()
	}

	result := curves.Infinity()
	for i := k.BitLen() - 1; i >= 0; {
		start := i - t.window + 1
		if start < 0 {
			start = 0
		}

		bits := 0
		for j := i; j >= start; j-- {
			bits = bits<<1 | int(k.Bit(j))
			result = t.curve.Double(result)
		}
		if bits != 0 {
			result = t.curve.Add(result, t.entries[bits])
		}
		i = start - 1
	}

	if result.IsInfinity() {
		return result
	}
	// Detach the result from table storage.
	return curves.NewPoint(result.X, result.Y)
}

// TableCache is a bounded, concurrency-safe cache of tables keyed by curve,
// window width and base point value. Each table is built at most once per
// key at a time and published only after construction completes.
type TableCache struct {
	tables *lru.Cache[string, *Table]
	group  singleflight.Group
}

// NewTableCache returns a cache holding up to size tables.
func NewTableCache(size int) (*TableCache, error) {
	tables, err := lru.New[string, *Table](size)
	if err != nil {
		return nil, fmt.Errorf("scalarmult: table cache: %w", err)
	}
	return &TableCache{tables: tables}, nil
}

// Get returns the table for p, building it on a miss.
func (c *TableCache) Get(curve *curves.Params, p curves.Point, window int) *Table {
	key := tableKey(curve, p, window)
	if t, ok := c.tables.Get(key); ok {
		return t
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if t, ok := c.tables.Get(key); ok {
			return t, nil
		}
		t := Precompute(curve, p, window)
		c.tables.Add(key, t)
		return t, nil
	})
	return v.(*Table)
}

// Len returns the number of cached tables.
func (c *TableCache) Len() int { return c.tables.Len() }

// Purge drops every cached table.
func (c *TableCache) Purge() { c.tables.Purge() }

func tableKey(curve *curves.Params, p curves.Point, window int) string {
	return curve.Name + "/" + strconv.Itoa(window) + "/" + string(curve.Marshal(p))
}
