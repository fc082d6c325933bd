// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/evrynet/staking/builtin/staking"
	"github.com/evrynet/staking/builtin/staking/params"
	"github.com/evrynet/staking/builtin/staking/withdrawal"
	"github.com/evrynet/staking/evr"
)

func hexOrDecimal(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

func toBig(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}

type Candidate struct {
	Address    evr.Address           `json:"address"`
	Owner      evr.Address           `json:"owner"`
	Active     bool                  `json:"active"`
	TotalStake *math.HexOrDecimal256 `json:"totalStake"`
}

type CandidateList struct {
	Candidates        []*Candidate          `json:"candidates"`
	MaxValidatorSize  uint64                `json:"maxValidatorSize"`
	MinValidatorStake *math.HexOrDecimal256 `json:"minValidatorStake"`
}

func convertCandidateList(list *staking.CandidateList, owners []evr.Address) *CandidateList {
	out := &CandidateList{
		Candidates:        make([]*Candidate, 0, len(list.Candidates)),
		MaxValidatorSize:  list.MaxValidatorSize,
		MinValidatorStake: hexOrDecimal(list.MinValidatorStake),
	}
	for i, c := range list.Candidates {
		out.Candidates = append(out.Candidates, &Candidate{
			Address:    c,
			Owner:      owners[i],
			Active:     true,
			TotalStake: hexOrDecimal(list.Stakes[i]),
		})
	}
	return out
}

type VoterStake struct {
	Voter evr.Address           `json:"voter"`
	Stake *math.HexOrDecimal256 `json:"stake"`
}

type Epoch struct {
	Current     uint64 `json:"current"`
	Period      uint64 `json:"period"`
	StartBlock  uint64 `json:"startBlock"`
	BlockNumber uint64 `json:"blockNumber"`
	NextEpochAt uint64 `json:"nextEpochAt"`
}

type Withdrawal struct {
	Index uint64                `json:"index"`
	Epoch uint64                `json:"epoch"`
	Cap   *math.HexOrDecimal256 `json:"cap"`
}

func convertPending(pending []withdrawal.Pending) []*Withdrawal {
	out := make([]*Withdrawal, 0, len(pending))
	for _, p := range pending {
		out = append(out, &Withdrawal{Index: p.Index, Epoch: p.Epoch, Cap: hexOrDecimal(p.Cap)})
	}
	return out
}

type Params struct {
	Admin             evr.Address           `json:"admin"`
	MaxValidatorSize  uint64                `json:"maxValidatorSize"`
	MinValidatorStake *math.HexOrDecimal256 `json:"minValidatorStake"`
	MinVoterCap       *math.HexOrDecimal256 `json:"minVoterCap"`
	EpochPeriod       uint64                `json:"epochPeriod"`
	StartBlock        uint64                `json:"startBlock"`
	OwnerUnlockPeriod uint64                `json:"ownerUnlockPeriod"`
	VoterUnlockPeriod uint64                `json:"voterUnlockPeriod"`
	CandidateSlots    uint64                `json:"candidateSlots"`
}

func convertParams(p *params.Params) *Params {
	return &Params{
		Admin:             p.Admin,
		MaxValidatorSize:  p.MaxValidatorSize,
		MinValidatorStake: hexOrDecimal(p.MinValidatorStake),
		MinVoterCap:       hexOrDecimal(p.MinVoterCap),
		EpochPeriod:       p.EpochPeriod,
		StartBlock:        p.StartBlock,
		OwnerUnlockPeriod: p.OwnerUnlockPeriod,
		VoterUnlockPeriod: p.VoterUnlockPeriod,
		CandidateSlots:    p.CandidateSlots,
	}
}

// Request bodies. Caller is the account the call is made on behalf of.

type RegisterRequest struct {
	Caller    evr.Address `json:"caller"`
	Candidate evr.Address `json:"candidate"`
	Owner     evr.Address `json:"owner"`
}

type ResignRequest struct {
	Caller evr.Address `json:"caller"`
}

type StakeRequest struct {
	Caller    evr.Address           `json:"caller"`
	Candidate evr.Address           `json:"candidate"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

type WithdrawRequest struct {
	Caller      evr.Address `json:"caller"`
	Epoch       uint64      `json:"epoch"`
	Index       *uint64     `json:"index,omitempty"`
	Destination evr.Address `json:"destination"`
}

type SizeRequest struct {
	Caller evr.Address `json:"caller"`
	Size   uint64      `json:"size"`
}

type AmountRequest struct {
	Caller evr.Address           `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type AdminRequest struct {
	Caller   evr.Address `json:"caller"`
	NewAdmin evr.Address `json:"newAdmin"`
}

// Receipt reports the block that includes an accepted call.
type Receipt struct {
	BlockNumber uint64                `json:"blockNumber"`
	Amount      *math.HexOrDecimal256 `json:"amount,omitempty"`
}
