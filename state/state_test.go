// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/lvldb"
)

func M(a ...any) []any {
	return a
}

func newTestState(t *testing.T) (*Stater, *State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	stater := NewStater(db)
	return stater, stater.NewState()
}

func TestStateReadWrite(t *testing.T) {
	_, state := newTestState(t)

	addr := evr.BytesToAddress([]byte("account1"))
	storageKey := evr.BytesToBytes32([]byte("storageKey"))

	assert.Equal(t, M(&big.Int{}, nil), M(state.GetBalance(addr)))
	assert.Equal(t, M(evr.Bytes32{}, nil), M(state.GetStorage(addr, storageKey)))

	// make account not empty
	assert.NoError(t, state.SetBalance(addr, big.NewInt(1)))
	assert.Equal(t, M(big.NewInt(1), nil), M(state.GetBalance(addr)))

	state.SetStorage(addr, storageKey, evr.BytesToBytes32([]byte("value")))
	assert.Equal(t, M(evr.BytesToBytes32([]byte("value")), nil), M(state.GetStorage(addr, storageKey)))

	assert.Error(t, state.SetBalance(addr, big.NewInt(-1)))
}

func TestStateRevert(t *testing.T) {
	_, state := newTestState(t)

	addr := evr.BytesToAddress([]byte("account1"))
	storageKey := evr.BytesToBytes32([]byte("storageKey"))

	values := []struct {
		balance *big.Int
		storage evr.Bytes32
	}{
		{big.NewInt(1), evr.BytesToBytes32([]byte("v1"))},
		{big.NewInt(2), evr.BytesToBytes32([]byte("v2"))},
		{big.NewInt(3), evr.BytesToBytes32([]byte("v3"))},
	}

	for _, v := range values {
		state.NewCheckpoint()
		state.SetBalance(addr, v.balance)
		state.SetStorage(addr, storageKey, v.storage)
	}

	for i := range values {
		v := values[len(values)-i-1]
		assert.Equal(t, M(v.balance, nil), M(state.GetBalance(addr)))
		assert.Equal(t, M(v.storage, nil), M(state.GetStorage(addr, storageKey)))
		state.RevertTo(len(values) - i)
	}
	assert.Equal(t, M(&big.Int{}, nil), M(state.GetBalance(addr)))
	assert.Equal(t, M(evr.Bytes32{}, nil), M(state.GetStorage(addr, storageKey)))
}

func TestStateTransfer(t *testing.T) {
	_, state := newTestState(t)

	from := evr.BytesToAddress([]byte("from"))
	to := evr.BytesToAddress([]byte("to"))
	require.NoError(t, state.SetBalance(from, big.NewInt(10)))

	assert.NoError(t, state.Transfer(from, to, big.NewInt(4)))
	assert.Equal(t, M(big.NewInt(6), nil), M(state.GetBalance(from)))
	assert.Equal(t, M(big.NewInt(4), nil), M(state.GetBalance(to)))

	err := state.Transfer(from, to, big.NewInt(7))
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.Equal(t, M(big.NewInt(6), nil), M(state.GetBalance(from)))
}

func TestEncodeDecodeStorage(t *testing.T) {
	_, state := newTestState(t)

	addr := evr.BytesToAddress([]byte("addr"))
	key := evr.BytesToBytes32([]byte("key"))

	type entry struct {
		A uint64
		B []byte
	}
	in := entry{7, []byte("x")}
	assert.NoError(t, state.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&in)
	}))

	var out entry
	assert.NoError(t, state.DecodeStorage(addr, key, func(b []byte) error {
		return rlp.DecodeBytes(b, &out)
	}))
	assert.Equal(t, in, out)

	// rlp lists are reported as their hash
	raw, _ := state.GetRawStorage(addr, key)
	assert.Equal(t, M(evr.Blake2b(raw), nil), M(state.GetStorage(addr, key)))

	boom := errors.New("boom")
	err := state.EncodeStorage(addr, key, func() ([]byte, error) { return nil, boom })
	var stateErr *Error
	assert.True(t, errors.As(err, &stateErr))
	assert.ErrorIs(t, err, boom)
}
