// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrynet/staking/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		assert.NoError(t, db.Put(key, value))

		ret1, err := db.Get(key)
		assert.NoError(t, err)

		ret2, err := db.Has(key)
		assert.NoError(t, err)

		ret3, err := db.Has(inValidKey)
		assert.NoError(t, err)

		assert.NoError(t, db.Delete(key))

		_, ret4 := db.Get(key)

		tests := []struct {
			ret      any
			expected any
		}{
			{ret1, value},
			{ret2, true},
			{ret3, false},
			{db.IsNotFound(ret4), true},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.ret)
		}
	}
}

func TestLevelDBBulk(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	assert.NoError(t, bulk.Put([]byte("a"), []byte("1")))
	assert.NoError(t, bulk.Put([]byte("b"), []byte("2")))
	assert.NoError(t, bulk.Delete([]byte("b")))
	assert.Equal(t, 3, bulk.Len())

	has, _ := db.Has([]byte("a"))
	assert.False(t, has, "bulk must not be visible before write")

	assert.NoError(t, bulk.Write())
	has, _ = db.Has([]byte("a"))
	assert.True(t, has)
	has, _ = db.Has([]byte("b"))
	assert.False(t, has)
}

func TestLevelDBIterateBucket(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	store := kv.Bucket("x").NewStore(db)
	for _, k := range []string{"3", "1", "2"} {
		assert.NoError(t, store.Put([]byte(k), []byte("v"+k)))
	}
	assert.NoError(t, db.Put([]byte("y1"), []byte("other")))

	iter := store.Iterate(kv.Range{Start: []byte("2")})
	defer iter.Release()

	var got []string
	for iter.Next() {
		got = append(got, string(iter.Key())+"="+string(iter.Value()))
	}
	assert.NoError(t, iter.Error())
	assert.Equal(t, []string{"2=v2", "3=v3"}, got)
}
