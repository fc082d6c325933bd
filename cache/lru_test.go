// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLRUInvalidSize(t *testing.T) {
	_, err := NewLRU(0)
	assert.Error(t, err)
}

func TestLRUGetOrLoad(t *testing.T) {
	c, err := NewLRU(2)
	require.NoError(t, err)

	loads := 0
	loader := func(key any) (any, error) {
		loads++
		return key.(string) + "!", nil
	}

	v, err := c.GetOrLoad("a", loader)
	assert.NoError(t, err)
	assert.Equal(t, "a!", v)

	v, err = c.GetOrLoad("a", loader)
	assert.NoError(t, err)
	assert.Equal(t, "a!", v)
	assert.Equal(t, 1, loads)

	_, hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	boom := errors.New("boom")
	_, err = c.GetOrLoad("b", func(any) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Contains("b"))

	// evicts "a"
	c.GetOrLoad("c", loader)
	c.GetOrLoad("d", loader)
	assert.False(t, c.Contains("a"))
}

func M(a ...any) []any {
	return a
}

func TestStatsHitRate(t *testing.T) {
	var cs Stats
	assert.Equal(t, M(false, int64(0), int64(0)), M(cs.Stats()))

	for range 3 {
		cs.Hit()
	}
	cs.Miss()
	assert.Equal(t, M(true, int64(3), int64(1)), M(cs.Stats()))

	// same rate, no change reported
	assert.Equal(t, M(false, int64(3), int64(1)), M(cs.Stats()))

	cs.Miss()
	changed, hit, miss := cs.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(3), hit)
	assert.Equal(t, int64(2), miss)
}
