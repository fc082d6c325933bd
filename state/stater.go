// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/evrynet/staking/cache"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/kv"
)

const defaultCacheSize = 16384

// Stater is the state creator.
// States created by one stater share a read cache, which is kept coherent by Stage.Commit.
type Stater struct {
	store kv.Store
	cache *cache.LRU
}

// NewStater create a new stater.
func NewStater(store kv.Store) *Stater {
	c, _ := cache.NewLRU(defaultCacheSize)
	return &Stater{store, c}
}

// NewState create a new state object.
func (s *Stater) NewState() *State {
	return New(s.store, s.cache)
}

// Commit stages the changes of st and writes them into the store.
// It returns the digest of the committed changes.
func (s *Stater) Commit(st *State) (hash evr.Bytes32, entries int, err error) {
	stage := st.Stage()
	if err := stage.Commit(s.store); err != nil {
		return evr.Bytes32{}, 0, err
	}
	return stage.Hash(), stage.Len(), nil
}

// CacheStats returns hit/miss counters of the shared read cache.
func (s *Stater) CacheStats() (changed bool, hit, miss int64) {
	return s.cache.Stats()
}
