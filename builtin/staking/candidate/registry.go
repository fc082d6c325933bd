// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"github.com/pkg/errors"

	"github.com/evrynet/staking/builtin/solidity"
	"github.com/evrynet/staking/builtin/staking/reverts"
	"github.com/evrynet/staking/evr"
)

var (
	slotCandidates = evr.BytesToBytes32([]byte(("candidates")))
	slotActiveList = evr.BytesToBytes32([]byte(("candidates-active")))
)

// Registry is the set of candidates. Active candidates are kept in a dense
// list, removal swaps the last element into the freed slot.
type Registry struct {
	candidates *solidity.Mapping[evr.Address, *Candidate]
	active     *solidity.Array[evr.Address]
}

func New(sctx *solidity.Context) *Registry {
	return &Registry{
		candidates: solidity.NewMapping[evr.Address, *Candidate](sctx, slotCandidates),
		active:     solidity.NewArray[evr.Address](sctx, slotActiveList),
	}
}

// Get returns the record of addr. Unknown candidates yield an empty record.
func (r *Registry) Get(addr evr.Address) (*Candidate, error) {
	c, err := r.candidates.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidate")
	}
	return c, nil
}

func (r *Registry) IsActive(addr evr.Address) (bool, error) {
	c, err := r.Get(addr)
	if err != nil {
		return false, err
	}
	return c.Active, nil
}

// Count returns the number of active candidates.
func (r *Registry) Count() (uint64, error) {
	return r.active.Len()
}

// List returns the active candidates in list order.
func (r *Registry) List() ([]evr.Address, error) {
	list, err := r.active.All()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list candidates")
	}
	return list, nil
}

// Activate marks addr active under owner and appends it to the active list.
func (r *Registry) Activate(addr, owner evr.Address, capacity uint64) error {
	c, err := r.Get(addr)
	if err != nil {
		return err
	}
	if c.Active {
		return reverts.New(reverts.AlreadyActive, "only not active candidate")
	}
	count, err := r.active.Len()
	if err != nil {
		return err
	}
	if count >= capacity {
		return reverts.Newf(reverts.CapacityExceeded, "too many candidates, capacity %d", capacity)
	}
	index, err := r.active.Push(addr)
	if err != nil {
		return errors.Wrap(err, "failed to append candidate")
	}
	if err := r.candidates.Set(addr, &Candidate{Owner: owner, Active: true, Slot: index + 1}); err != nil {
		return errors.Wrap(err, "failed to set candidate")
	}
	return nil
}

// Deactivate clears the active flag of addr and compacts the active list.
// It returns the record as it was before deactivation.
func (r *Registry) Deactivate(addr evr.Address) (*Candidate, error) {
	c, err := r.Get(addr)
	if err != nil {
		return nil, err
	}
	if !c.Active || c.Slot == 0 {
		return nil, reverts.New(reverts.NotActive, "only active candidate")
	}
	moved, ok, err := r.active.SwapRemove(c.Slot - 1)
	if err != nil {
		return nil, errors.Wrap(err, "failed to remove candidate")
	}
	if ok {
		mc, err := r.Get(moved)
		if err != nil {
			return nil, err
		}
		mc.Slot = c.Slot
		if err := r.candidates.Set(moved, mc); err != nil {
			return nil, errors.Wrap(err, "failed to set moved candidate")
		}
	}
	prev := *c
	if err := r.candidates.Set(addr, &Candidate{Owner: c.Owner}); err != nil {
		return nil, errors.Wrap(err, "failed to set candidate")
	}
	return &prev, nil
}
