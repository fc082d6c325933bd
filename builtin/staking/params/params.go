// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/evrynet/staking/builtin/solidity"
	"github.com/evrynet/staking/builtin/staking/reverts"
	"github.com/evrynet/staking/evr"
)

var (
	slotAdmin             = evr.BytesToBytes32([]byte("params-admin"))
	slotMaxValidatorSize  = evr.BytesToBytes32([]byte("params-max-validator-size"))
	slotMinValidatorStake = evr.BytesToBytes32([]byte("params-min-validator-stake"))
	slotMinVoterCap       = evr.BytesToBytes32([]byte("params-min-voter-cap"))
	slotEpochPeriod       = evr.BytesToBytes32([]byte("params-epoch-period"))
	slotStartBlock        = evr.BytesToBytes32([]byte("params-start-block"))
	slotOwnerUnlockPeriod = evr.BytesToBytes32([]byte("params-owner-unlock"))
	slotVoterUnlockPeriod = evr.BytesToBytes32([]byte("params-voter-unlock"))
	slotCandidateSlots    = evr.BytesToBytes32([]byte("params-candidate-slots"))
)

// Params is the full configuration of a ledger.
type Params struct {
	Admin             evr.Address
	MaxValidatorSize  uint64
	MinValidatorStake *big.Int
	MinVoterCap       *big.Int
	EpochPeriod       uint64
	StartBlock        uint64
	OwnerUnlockPeriod uint64
	VoterUnlockPeriod uint64
	CandidateSlots    uint64
}

// Validate applies the construction rules.
func (p *Params) Validate() error {
	if p.EpochPeriod == 0 {
		return reverts.New(reverts.InvalidArgument, "epoch period must be positive")
	}
	if p.MaxValidatorSize < evr.MinMaxValidatorSize {
		return reverts.Newf(reverts.InvalidArgument, "max validator size must be at least %d", evr.MinMaxValidatorSize)
	}
	if p.Admin.IsZero() {
		return reverts.New(reverts.InvalidArgument, "admin is the zero address")
	}
	if p.MinValidatorStake == nil || p.MinValidatorStake.Sign() < 0 {
		return reverts.New(reverts.InvalidArgument, "invalid min validator stake")
	}
	if p.MinVoterCap == nil || p.MinVoterCap.Sign() < 0 {
		return reverts.New(reverts.InvalidArgument, "invalid min voter cap")
	}
	if p.CandidateSlots == 0 {
		return reverts.New(reverts.InvalidArgument, "candidate slots must be positive")
	}
	return nil
}

// Service stores the configuration and gates its mutation to the admin.
type Service struct {
	admin             *solidity.Address
	maxValidatorSize  *solidity.Uint256
	minValidatorStake *solidity.Uint256
	minVoterCap       *solidity.Uint256
	epochPeriod       *solidity.Uint256
	startBlock        *solidity.Uint256
	ownerUnlockPeriod *solidity.Uint256
	voterUnlockPeriod *solidity.Uint256
	candidateSlots    *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		admin:             solidity.NewAddress(sctx, slotAdmin),
		maxValidatorSize:  solidity.NewUint256(sctx, slotMaxValidatorSize),
		minValidatorStake: solidity.NewUint256(sctx, slotMinValidatorStake),
		minVoterCap:       solidity.NewUint256(sctx, slotMinVoterCap),
		epochPeriod:       solidity.NewUint256(sctx, slotEpochPeriod),
		startBlock:        solidity.NewUint256(sctx, slotStartBlock),
		ownerUnlockPeriod: solidity.NewUint256(sctx, slotOwnerUnlockPeriod),
		voterUnlockPeriod: solidity.NewUint256(sctx, slotVoterUnlockPeriod),
		candidateSlots:    solidity.NewUint256(sctx, slotCandidateSlots),
	}
}

// Initialized reports whether Init has been applied. A stored epoch period is never zero.
func (s *Service) Initialized() (bool, error) {
	period, err := s.epochPeriod.Uint64()
	if err != nil {
		return false, err
	}
	return period != 0, nil
}

// Init validates and stores p.
func (s *Service) Init(p *Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.admin.Set(p.Admin)
	s.maxValidatorSize.SetUint64(p.MaxValidatorSize)
	if err := s.minValidatorStake.Set(p.MinValidatorStake); err != nil {
		return reverts.New(reverts.InvalidArgument, "min validator stake out of range")
	}
	if err := s.minVoterCap.Set(p.MinVoterCap); err != nil {
		return reverts.New(reverts.InvalidArgument, "min voter cap out of range")
	}
	s.epochPeriod.SetUint64(p.EpochPeriod)
	s.startBlock.SetUint64(p.StartBlock)
	s.ownerUnlockPeriod.SetUint64(p.OwnerUnlockPeriod)
	s.voterUnlockPeriod.SetUint64(p.VoterUnlockPeriod)
	s.candidateSlots.SetUint64(p.CandidateSlots)
	return nil
}

// Load reads the whole configuration.
func (s *Service) Load() (*Params, error) {
	var (
		p   Params
		err error
	)
	if p.Admin, err = s.admin.Get(); err != nil {
		return nil, err
	}
	if p.MaxValidatorSize, err = s.maxValidatorSize.Uint64(); err != nil {
		return nil, err
	}
	if p.MinValidatorStake, err = s.minValidatorStake.Get(); err != nil {
		return nil, err
	}
	if p.MinVoterCap, err = s.minVoterCap.Get(); err != nil {
		return nil, err
	}
	if p.EpochPeriod, err = s.epochPeriod.Uint64(); err != nil {
		return nil, err
	}
	if p.StartBlock, err = s.startBlock.Uint64(); err != nil {
		return nil, err
	}
	if p.OwnerUnlockPeriod, err = s.ownerUnlockPeriod.Uint64(); err != nil {
		return nil, err
	}
	if p.VoterUnlockPeriod, err = s.voterUnlockPeriod.Uint64(); err != nil {
		return nil, err
	}
	if p.CandidateSlots, err = s.candidateSlots.Uint64(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Admin() (evr.Address, error) {
	return s.admin.Get()
}

func (s *Service) MaxValidatorSize() (uint64, error) {
	return s.maxValidatorSize.Uint64()
}

func (s *Service) MinValidatorStake() (*big.Int, error) {
	return s.minValidatorStake.Get()
}

func (s *Service) MinVoterCap() (*big.Int, error) {
	return s.minVoterCap.Get()
}

// RequireAdmin fails with Unauthorized unless caller is the current admin.
func (s *Service) RequireAdmin(caller evr.Address) error {
	admin, err := s.admin.Get()
	if err != nil {
		return err
	}
	if caller != admin {
		return reverts.New(reverts.Unauthorized, "sender is not admin")
	}
	return nil
}

// UpdateMaxValidatorSize overwrites the value without re-validating it.
func (s *Service) UpdateMaxValidatorSize(caller evr.Address, size uint64) error {
	if err := s.RequireAdmin(caller); err != nil {
		return err
	}
	s.maxValidatorSize.SetUint64(size)
	return nil
}

func (s *Service) UpdateMinValidatorStake(caller evr.Address, amount *big.Int) error {
	if err := s.RequireAdmin(caller); err != nil {
		return err
	}
	if amount == nil {
		return reverts.New(reverts.InvalidArgument, "min validator stake is nil")
	}
	if err := s.minValidatorStake.Set(amount); err != nil {
		return reverts.New(reverts.InvalidArgument, "min validator stake out of range")
	}
	return nil
}

func (s *Service) UpdateMinVoterCap(caller evr.Address, amount *big.Int) error {
	if err := s.RequireAdmin(caller); err != nil {
		return err
	}
	if amount == nil {
		return reverts.New(reverts.InvalidArgument, "min voter cap is nil")
	}
	if err := s.minVoterCap.Set(amount); err != nil {
		return reverts.New(reverts.InvalidArgument, "min voter cap out of range")
	}
	return nil
}

func (s *Service) TransferAdmin(caller, newAdmin evr.Address) error {
	if err := s.RequireAdmin(caller); err != nil {
		return err
	}
	if newAdmin.IsZero() {
		return reverts.New(reverts.InvalidArgument, "new admin is the zero address")
	}
	s.admin.Set(newAdmin)
	return nil
}
