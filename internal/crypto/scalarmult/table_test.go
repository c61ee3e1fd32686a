package scalarmult

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-sm2/internal/crypto/curves"
)

func TestPrecomputeEntries(t *testing.T) {
	c := curves.SM2Test()
	g := c.Generator()
	ref := &binaryMult{curve: c}

	table := Precompute(c, g, 4)
	assert.Equal(t, 4, table.Window())
	assert.True(t, table.Base().Equal(g))
	assert.True(t, table.Entry(0).IsInfinity())
	for j := 1; j < 16; j++ {
		assert.True(t, ref.ScalarMult(big.NewInt(int64(j)), g).Equal(table.Entry(j)), "entry %d", j)
	}
}

func TestTableResultIsDetached(t *testing.T) {
	c := curves.SM2Test()
	table := Precompute(c, c.Generator(), 4)

	p := table.ScalarMult(big.NewInt(3))
	p.X.SetInt64(0)
	assert.True(t, c.IsOnCurve(table.Entry(3)))
}

func TestTableCacheReuse(t *testing.T) {
	c := curves.SM2P256()
	cache, err := NewTableCache(2)
	require.NoError(t, err)

	g := c.Generator()
	t1 := cache.Get(c, g, 4)
	t2 := cache.Get(c, curves.NewPoint(g.X, g.Y), 4)
	assert.Same(t, t1, t2)
	assert.Equal(t, 1, cache.Len())

	// Different window or base point means a different table.
	assert.NotSame(t, t1, cache.Get(c, g, 5))
	assert.NotSame(t, t1, cache.Get(c, c.Double(g), 4))
	assert.Equal(t, 2, cache.Len())
}

// Dropping cached tables must not change any result.
func TestTableCachePurgeTransparent(t *testing.T) {
	c := curves.SM2P256()
	cache, err := NewTableCache(DefaultCacheSize)
	require.NoError(t, err)
	m, err := New(c, Windowed, WithTableCache(cache))
	require.NoError(t, err)

	k := hexInt("128B2FA8BD433C6C068C8D803DFF79792A519A55171B1B650C23661D15897263")
	before := m.ScalarMult(k, c.Generator())
	cache.Purge()
	assert.Equal(t, 0, cache.Len())
	after := m.ScalarMult(k, c.Generator())
	assert.True(t, before.Equal(after))
}

func TestTableCacheConcurrentBuild(t *testing.T) {
	c := curves.SM2Test()
	cache, err := NewTableCache(DefaultCacheSize)
	require.NoError(t, err)

	const workers = 16
	tables := make([]*Table, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tables[i] = cache.Get(c, c.Generator(), 6)
		}(i)
	}
	wg.Wait()

	for _, tbl := range tables[1:] {
		assert.Same(t, tables[0], tbl)
	}
}
