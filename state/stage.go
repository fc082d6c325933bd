// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/evrynet/staking/cache"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/kv"
)

// Stage abstracts changes collected from a state's journal.
type Stage struct {
	accounts map[evr.Address]*Account
	storage  map[storageKey]rlp.RawValue
	cache    *cache.LRU
}

func newStage(accounts map[evr.Address]*Account, storage map[storageKey]rlp.RawValue, c *cache.LRU) *Stage {
	return &Stage{accounts, storage, c}
}

// Len returns the count of changed entries.
func (s *Stage) Len() int {
	return len(s.accounts) + len(s.storage)
}

// Hash computes a digest over all changes in a deterministic order.
// It is the zero hash when nothing changed.
func (s *Stage) Hash() evr.Bytes32 {
	if s.Len() == 0 {
		return evr.Bytes32{}
	}
	addrs := make([]evr.Address, 0, len(s.accounts))
	for addr := range s.accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return bytes.Compare(addrs[i][:], addrs[j][:]) < 0 })

	keys := make([]storageKey, 0, len(s.storage))
	for k := range s.storage {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(storageDBKey(keys[i].addr, keys[i].key), storageDBKey(keys[j].addr, keys[j].key)) < 0
	})

	return evr.Blake2bFn(func(w io.Writer) {
		for _, addr := range addrs {
			w.Write(addr[:])
			rlp.Encode(w, s.accounts[addr])
		}
		for _, k := range keys {
			w.Write(storageDBKey(k.addr, k.key))
			w.Write(s.storage[k])
		}
	})
}

// Commit writes all changes into the store atomically.
func (s *Stage) Commit(store kv.Store) error {
	bulk := store.Bulk()
	accounts := accountBucket.NewPutter(bulk)
	storage := storageBucket.NewPutter(bulk)

	for addr, acc := range s.accounts {
		if err := saveAccount(accounts, addr, acc); err != nil {
			return &Error{err}
		}
	}
	for k, v := range s.storage {
		if err := saveStorage(storage, k.addr, k.key, v); err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}

	if s.cache != nil {
		for addr, acc := range s.accounts {
			s.cache.Add(addr, acc)
		}
		for k, v := range s.storage {
			s.cache.Add(k, v)
		}
	}
	metricStateCommitCounter().Add(int64(s.Len()))
	return nil
}
