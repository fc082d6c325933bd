// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/evrynet/staking/evr"
)

// ErrIndexOutOfRange is returned when accessing an array beyond its length.
var ErrIndexOutOfRange = errors.New("index out of range")

// Index is an array position used as mapping key.
type Index uint64

func (i Index) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(i))
}

// Array is a dynamic array, similar to T[] in Solidity.
// The length lives at the base position, elements in a mapping derived from it.
type Array[V any] struct {
	length *Uint256
	items  *Mapping[Index, V]
}

func NewArray[V any](context *Context, pos evr.Bytes32) *Array[V] {
	return &Array[V]{
		length: NewUint256(context, pos),
		items:  NewMapping[Index, V](context, evr.Keccak256(pos[:])),
	}
}

func (a *Array[V]) Len() (uint64, error) {
	return a.length.Uint64()
}

func (a *Array[V]) Get(i uint64) (value V, err error) {
	n, err := a.Len()
	if err != nil {
		return value, err
	}
	if i >= n {
		return value, ErrIndexOutOfRange
	}
	return a.items.Get(Index(i))
}

func (a *Array[V]) Set(i uint64, value V) error {
	n, err := a.Len()
	if err != nil {
		return err
	}
	if i >= n {
		return ErrIndexOutOfRange
	}
	return a.items.Set(Index(i), value)
}

// Push appends value and returns its index.
func (a *Array[V]) Push(value V) (uint64, error) {
	n, err := a.Len()
	if err != nil {
		return 0, err
	}
	if err := a.items.Set(Index(n), value); err != nil {
		return 0, err
	}
	a.length.SetUint64(n + 1)
	return n, nil
}

// SwapRemove removes the element at i by moving the last element into its place.
// It returns the moved element and whether a move happened.
func (a *Array[V]) SwapRemove(i uint64) (moved V, ok bool, err error) {
	n, err := a.Len()
	if err != nil {
		return moved, false, err
	}
	if i >= n {
		return moved, false, ErrIndexOutOfRange
	}
	last := n - 1
	if i != last {
		if moved, err = a.items.Get(Index(last)); err != nil {
			return moved, false, err
		}
		if err := a.items.Set(Index(i), moved); err != nil {
			return moved, false, err
		}
		ok = true
	}
	a.items.Delete(Index(last))
	a.length.SetUint64(last)
	return moved, ok, nil
}

// All returns every element in index order.
func (a *Array[V]) All() ([]V, error) {
	n, err := a.Len()
	if err != nil {
		return nil, err
	}
	out := make([]V, 0, n)
	for i := range n {
		v, err := a.items.Get(Index(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
