// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/evrynet/staking/evr"
)

var (
	ErrOverflow  = errors.New("uint256 overflow")
	ErrUnderflow = errors.New("uint256 underflow")
)

// Uint256 is a wrapper for storage and retrieval of an uint256, similar to storing an uint256 in a smart contract.
// Arithmetic is checked: results outside [0, 2^256) are rejected and the slot is left untouched.
type Uint256 struct {
	context *Context
	pos     evr.Bytes32
}

func NewUint256(context *Context, pos evr.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) load() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(storage[:]), nil
}

func (u *Uint256) store(v *uint256.Int) {
	u.context.state.SetStorage(u.context.address, u.pos, evr.Bytes32(v.Bytes32()))
}

func (u *Uint256) Get() (*big.Int, error) {
	v, err := u.load()
	if err != nil {
		return nil, err
	}
	return v.ToBig(), nil
}

func (u *Uint256) Set(value *big.Int) error {
	v, overflow := uint256.FromBig(value)
	if overflow || value.Sign() < 0 {
		return ErrOverflow
	}
	u.store(v)
	return nil
}

// Add adds delta and returns the new value.
func (u *Uint256) Add(delta *big.Int) (*big.Int, error) {
	d, overflow := uint256.FromBig(delta)
	if overflow || delta.Sign() < 0 {
		return nil, ErrOverflow
	}
	v, err := u.load()
	if err != nil {
		return nil, err
	}
	if _, overflow := v.AddOverflow(v, d); overflow {
		return nil, ErrOverflow
	}
	u.store(v)
	return v.ToBig(), nil
}

// Sub subtracts delta and returns the new value.
func (u *Uint256) Sub(delta *big.Int) (*big.Int, error) {
	d, overflow := uint256.FromBig(delta)
	if overflow || delta.Sign() < 0 {
		return nil, ErrOverflow
	}
	v, err := u.load()
	if err != nil {
		return nil, err
	}
	if _, underflow := v.SubOverflow(v, d); underflow {
		return nil, ErrUnderflow
	}
	u.store(v)
	return v.ToBig(), nil
}

// Uint64 reads the value as uint64, saturating at the max uint64.
func (u *Uint256) Uint64() (uint64, error) {
	v, err := u.load()
	if err != nil {
		return 0, err
	}
	n, overflow := v.Uint64WithOverflow()
	if overflow {
		return ^uint64(0), nil
	}
	return n, nil
}

func (u *Uint256) SetUint64(n uint64) {
	u.store(uint256.NewInt(n))
}
