// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package withdrawal

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/evrynet/staking/builtin/solidity"
	"github.com/evrynet/staking/builtin/staking/reverts"
	"github.com/evrynet/staking/evr"
)

var slotQueue = evr.BytesToBytes32([]byte(("withdrawal-queue")))

// Entry is an amount releasable from its unlock epoch on.
type Entry struct {
	Epoch uint64
	Cap   *big.Int
}

// Pending is a non-zero entry together with its index in the staker queue.
type Pending struct {
	Index uint64
	Epoch uint64
	Cap   *big.Int
}

// Queue keeps an append only list of entries per staker.
// Consumed entries are zeroed in place so indices stay valid.
type Queue struct {
	sctx *solidity.Context
}

func New(sctx *solidity.Context) *Queue {
	return &Queue{sctx: sctx}
}

func (q *Queue) entries(staker evr.Address) *solidity.Array[*Entry] {
	return solidity.NewArray[*Entry](q.sctx, evr.Blake2b(slotQueue.Bytes(), staker.Bytes()))
}

// Push appends an entry and returns its index.
func (q *Queue) Push(staker evr.Address, epoch uint64, amount *big.Int) (uint64, error) {
	index, err := q.entries(staker).Push(&Entry{Epoch: epoch, Cap: new(big.Int).Set(amount)})
	if err != nil {
		return 0, errors.Wrap(err, "failed to append withdrawal")
	}
	return index, nil
}

func (q *Queue) Len(staker evr.Address) (uint64, error) {
	return q.entries(staker).Len()
}

// All returns every entry of staker including consumed ones.
func (q *Queue) All(staker evr.Address) ([]*Entry, error) {
	list, err := q.entries(staker).All()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list withdrawals")
	}
	return list, nil
}

// CapAt sums the pending caps of staker at epoch.
func (q *Queue) CapAt(staker evr.Address, epoch uint64) (*big.Int, error) {
	list, err := q.All(staker)
	if err != nil {
		return nil, err
	}
	sum := new(big.Int)
	for _, e := range list {
		if e.Epoch == epoch {
			sum.Add(sum, e.Cap)
		}
	}
	return sum, nil
}

// Latest returns the index of the most recent entry at epoch with a non-zero cap.
func (q *Queue) Latest(staker evr.Address, epoch uint64) (uint64, bool, error) {
	list, err := q.All(staker)
	if err != nil {
		return 0, false, err
	}
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Epoch == epoch && list[i].Cap.Sign() > 0 {
			return uint64(i), true, nil
		}
	}
	return 0, false, nil
}

// Consume zeroes the entry at index and returns its cap.
// The entry must belong to epoch and still hold a cap.
func (q *Queue) Consume(staker evr.Address, epoch, index uint64) (*big.Int, error) {
	arr := q.entries(staker)
	entry, err := arr.Get(index)
	if err != nil {
		if errors.Is(err, solidity.ErrIndexOutOfRange) {
			return nil, reverts.New(reverts.BadIndex, "not correct index")
		}
		return nil, errors.Wrap(err, "failed to get withdrawal")
	}
	if entry.Epoch != epoch {
		return nil, reverts.New(reverts.BadIndex, "not correct index")
	}
	if entry.Cap.Sign() == 0 {
		return nil, reverts.New(reverts.ZeroCap, "withdraw cap is 0")
	}
	amount := entry.Cap
	if err := arr.Set(index, &Entry{Epoch: entry.Epoch, Cap: new(big.Int)}); err != nil {
		return nil, errors.Wrap(err, "failed to set withdrawal")
	}
	return amount, nil
}

// Pending lists the entries of staker that still hold a cap.
func (q *Queue) Pending(staker evr.Address) ([]Pending, error) {
	list, err := q.All(staker)
	if err != nil {
		return nil, err
	}
	var pending []Pending
	for i, e := range list {
		if e.Cap.Sign() > 0 {
			pending = append(pending, Pending{Index: uint64(i), Epoch: e.Epoch, Cap: e.Cap})
		}
	}
	return pending, nil
}

// EpochsAndCaps returns the pending entries of staker as parallel lists.
func (q *Queue) EpochsAndCaps(staker evr.Address) ([]uint64, []*big.Int, error) {
	pending, err := q.Pending(staker)
	if err != nil {
		return nil, nil, err
	}
	epochs := make([]uint64, 0, len(pending))
	caps := make([]*big.Int, 0, len(pending))
	for _, p := range pending {
		epochs = append(epochs, p.Epoch)
		caps = append(caps, p.Cap)
	}
	return epochs, caps, nil
}
