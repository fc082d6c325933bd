// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/evrynet/staking/builtin/staking/params"
	"github.com/evrynet/staking/builtin/staking/withdrawal"
	"github.com/evrynet/staking/evr"
)

//
// Getters - no state change
//

// CandidateData is the registry view of a candidate.
type CandidateData struct {
	Owner      evr.Address
	Active     bool
	TotalStake *big.Int
}

// CandidateList is the active candidate set with its stakes.
type CandidateList struct {
	Candidates        []evr.Address
	Stakes            []*big.Int
	MaxValidatorSize  uint64
	MinValidatorStake *big.Int
}

func (s *Staking) IsCandidate(addr evr.Address) (bool, error) {
	return s.registry.IsActive(addr)
}

func (s *Staking) CandidateOwner(addr evr.Address) (evr.Address, error) {
	c, err := s.registry.Get(addr)
	if err != nil {
		return evr.Address{}, err
	}
	return c.Owner, nil
}

func (s *Staking) CandidateStake(addr evr.Address) (*big.Int, error) {
	return s.ledger.Total(addr)
}

func (s *Staking) CandidateData(addr evr.Address) (*CandidateData, error) {
	c, err := s.registry.Get(addr)
	if err != nil {
		return nil, err
	}
	total, err := s.ledger.Total(addr)
	if err != nil {
		return nil, err
	}
	return &CandidateData{Owner: c.Owner, Active: c.Active, TotalStake: total}, nil
}

// ListCandidates returns the active candidates in registry order.
// The order changes when a candidate resigns.
func (s *Staking) ListCandidates() (*CandidateList, error) {
	p, err := s.paramsService.Load()
	if err != nil {
		return nil, err
	}
	candidates, err := s.registry.List()
	if err != nil {
		return nil, err
	}
	stakes := make([]*big.Int, 0, len(candidates))
	for _, c := range candidates {
		total, err := s.ledger.Total(c)
		if err != nil {
			return nil, err
		}
		stakes = append(stakes, total)
	}
	return &CandidateList{
		Candidates:        candidates,
		Stakes:            stakes,
		MaxValidatorSize:  p.MaxValidatorSize,
		MinValidatorStake: p.MinValidatorStake,
	}, nil
}

// Voters returns every staker that voted for candidate, in first-vote order.
func (s *Staking) Voters(addr evr.Address) ([]evr.Address, error) {
	return s.ledger.Voters(addr)
}

func (s *Staking) VoterStake(candidateAddr, voter evr.Address) (*big.Int, error) {
	return s.ledger.Balance(candidateAddr, voter)
}

func (s *Staking) VoterStakes(candidateAddr evr.Address, voters []evr.Address) ([]*big.Int, error) {
	stakes := make([]*big.Int, 0, len(voters))
	for _, v := range voters {
		b, err := s.ledger.Balance(candidateAddr, v)
		if err != nil {
			return nil, err
		}
		stakes = append(stakes, b)
	}
	return stakes, nil
}

func (s *Staking) CurrentEpoch() (uint64, error) {
	_, clock, err := s.loadParams()
	if err != nil {
		return 0, err
	}
	return s.currentEpoch(clock), nil
}

// Clock returns the epoch clock of the stored configuration.
func (s *Staking) Clock() (*EpochClock, error) {
	_, clock, err := s.loadParams()
	return clock, err
}

// WithdrawCap sums the pending caps of staker at epoch.
func (s *Staking) WithdrawCap(staker evr.Address, epoch uint64) (*big.Int, error) {
	return s.queue.CapAt(staker, epoch)
}

// WithdrawEpochsAndCaps lists the pending entries of staker as parallel lists.
func (s *Staking) WithdrawEpochsAndCaps(staker evr.Address) ([]uint64, []*big.Int, error) {
	return s.queue.EpochsAndCaps(staker)
}

// PendingWithdrawals lists the pending entries of staker with their queue index.
func (s *Staking) PendingWithdrawals(staker evr.Address) ([]withdrawal.Pending, error) {
	return s.queue.Pending(staker)
}

func (s *Staking) Admin() (evr.Address, error) {
	return s.paramsService.Admin()
}

func (s *Staking) MaxValidatorSize() (uint64, error) {
	return s.paramsService.MaxValidatorSize()
}

func (s *Staking) MinValidatorStake() (*big.Int, error) {
	return s.paramsService.MinValidatorStake()
}

func (s *Staking) MinVoterCap() (*big.Int, error) {
	return s.paramsService.MinVoterCap()
}

// Params returns the whole stored configuration.
func (s *Staking) Params() (*params.Params, error) {
	return s.paramsService.Load()
}
