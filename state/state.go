// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/evrynet/staking/cache"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/kv"
	"github.com/evrynet/staking/stackedmap"
)

const (
	accountBucket = kv.Bucket("a")
	storageBucket = kv.Bucket("s")
)

// ErrInsufficientBalance is returned by Transfer when the sender can not cover the amount.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// State manages accounts and storage with revertable revisions.
type State struct {
	accounts kv.Getter
	storage  kv.Getter
	cache    *cache.LRU
	sm       *stackedmap.StackedMap[any, any] // keeps revisions of accounts state
}

// New create state object.
// The cache is optional and may be shared by states reading the same store.
func New(store kv.Getter, c *cache.LRU) *State {
	state := State{
		accounts: accountBucket.NewGetter(store),
		storage:  storageBucket.NewGetter(store),
		cache:    c,
	}

	state.sm = stackedmap.New(func(key any) (any, bool, error) {
		return state.cacheGetter(key)
	})
	return &state
}

func (s *State) load(key any, loader cache.Loader) (any, error) {
	if s.cache == nil {
		return loader(key)
	}
	return s.cache.GetOrLoad(key, loader)
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case evr.Address: // get account
		v, err := s.load(k, func(any) (any, error) {
			metricStateAccessCounter().AddWithLabel(1, map[string]string{"target": "account"})
			return loadAccount(s.accounts, k)
		})
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	case storageKey: // get storage
		v, err := s.load(k, func(any) (any, error) {
			metricStateAccessCounter().AddWithLabel(1, map[string]string{"target": "storage"})
			return loadStorage(s.storage, k.addr, k.key)
		})
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// getAccount gets account by address. the returned account should not be modified.
func (s *State) getAccount(addr evr.Address) (*Account, error) {
	v, _, err := s.sm.Get(addr)
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

func (s *State) updateAccount(addr evr.Address, acc *Account) {
	s.sm.Put(addr, acc)
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr evr.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(acc.Balance), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr evr.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{errors.New("negative balance")}
	}
	if _, err := s.getAccount(addr); err != nil {
		return &Error{err}
	}
	s.updateAccount(addr, &Account{Balance: new(big.Int).Set(balance)})
	return nil
}

// AddBalance credits amount to the given address.
func (s *State) AddBalance(addr evr.Address, amount *big.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	return s.SetBalance(addr, bal.Add(bal, amount))
}

// Transfer moves amount from one address to another.
// ErrInsufficientBalance is returned, with nothing changed, if from can not cover it.
func (s *State) Transfer(from, to evr.Address, amount *big.Int) error {
	bal, err := s.GetBalance(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := s.SetBalance(from, bal.Sub(bal, amount)); err != nil {
		return err
	}
	return s.AddBalance(to, amount)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr evr.Address, key evr.Bytes32) (evr.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return evr.Bytes32{}, err
	}
	if len(raw) == 0 {
		return evr.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return evr.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return evr.Blake2b(raw), nil
	}
	return evr.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr evr.Address, key, value evr.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr evr.Address, key evr.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr evr.Address, key evr.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr evr.Address, key evr.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr evr.Address, key evr.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage makes a stage object to compute the changes digest or commit all changes.
func (s *State) Stage() *Stage {
	var (
		accounts = make(map[evr.Address]*Account)
		storage  = make(map[storageKey]rlp.RawValue)
	)

	// later entries override earlier ones
	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case evr.Address:
			accounts[key] = v.(*Account)
		case storageKey:
			storage[key] = v.(rlp.RawValue)
		}
		return true
	})
	return newStage(accounts, storage, s.cache)
}

type storageKey struct {
	addr evr.Address
	key  evr.Bytes32
}
