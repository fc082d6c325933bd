// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/evrynet/staking/builtin/solidity"
	"github.com/evrynet/staking/builtin/staking/candidate"
	"github.com/evrynet/staking/builtin/staking/params"
	"github.com/evrynet/staking/builtin/staking/reverts"
	"github.com/evrynet/staking/builtin/staking/stake"
	"github.com/evrynet/staking/builtin/staking/withdrawal"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/log"
	"github.com/evrynet/staking/state"
)

var logger = log.WithContext("pkg", "staking")

// Clock reports the height of the block being executed.
type Clock interface {
	BlockNumber() uint64
}

// Transferer moves native value out of the ledger account.
// A failed transfer is reported through the result, never by panicking.
type Transferer interface {
	Transfer(to evr.Address, amount *big.Int) bool
}

// Genesis holds the construction parameters of a ledger.
type Genesis struct {
	Params     params.Params
	Candidates []evr.Address
	Owners     []evr.Address
}

// Staking implements the validator staking ledger.
// Every mutating call is applied atomically: on failure the state and the
// pending events are rolled back.
type Staking struct {
	addr       evr.Address
	state      *state.State
	clock      Clock
	transferer Transferer
	emitter    Emitter
	guard      PayoutGuard

	paramsService *params.Service
	registry      *candidate.Registry
	ledger        *stake.Ledger
	queue         *withdrawal.Queue

	depth   int
	pending []*Event
}

// New create a new instance.
func New(addr evr.Address, state *state.State, clock Clock, transferer Transferer, emitter Emitter) *Staking {
	sctx := solidity.NewContext(addr, state)
	if emitter == nil {
		emitter = noopEmitter
	}
	return &Staking{
		addr:          addr,
		state:         state,
		clock:         clock,
		transferer:    transferer,
		emitter:       emitter,
		paramsService: params.New(sctx),
		registry:      candidate.New(sctx),
		ledger:        stake.New(sctx),
		queue:         withdrawal.New(sctx),
	}
}

func (s *Staking) Address() evr.Address {
	return s.addr
}

// exec runs fn as one atomic call. Events queued by fn are emitted only when
// the outermost call succeeds.
func (s *Staking) exec(method string, fn func() error) error {
	checkpoint := s.state.NewCheckpoint()
	mark := len(s.pending)

	s.depth++
	err := fn()
	s.depth--

	metricCalls().AddWithLabel(1, map[string]string{"method": method, "outcome": outcomeOf(err)})
	if err != nil {
		s.state.RevertTo(checkpoint)
		s.pending = s.pending[:mark]
		return err
	}
	if s.depth == 0 {
		events := s.pending
		s.pending = nil
		for _, ev := range events {
			s.emitter.Emit(ev)
		}
	}
	return nil
}

func (s *Staking) emit(ev *Event) {
	s.pending = append(s.pending, ev)
}

func (s *Staking) loadParams() (*params.Params, *EpochClock, error) {
	p, err := s.paramsService.Load()
	if err != nil {
		return nil, nil, err
	}
	clock, err := NewEpochClock(p.EpochPeriod, p.StartBlock)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ledger is not initialized")
	}
	return p, clock, nil
}

func (s *Staking) currentEpoch(clock *EpochClock) uint64 {
	return clock.EpochOf(s.clock.BlockNumber())
}

func (s *Staking) updateActiveGauge() {
	if count, err := s.registry.Count(); err == nil {
		metricActiveCandidates().Set(int64(count))
	}
}

// checkAmount rejects values a 256 bit word cannot hold.
func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.New(reverts.InvalidArgument, "amount must be positive")
	}
	if _, overflow := uint256.FromBig(amount); overflow {
		return reverts.New(reverts.InvalidArgument, "amount overflows 256 bits")
	}
	return nil
}

// Initialize applies the genesis parameters. Each initial candidate becomes
// active with the minimum validator stake credited to its owner.
func (s *Staking) Initialize(g *Genesis) error {
	return s.exec("initialize", func() error {
		initialized, err := s.paramsService.Initialized()
		if err != nil {
			return err
		}
		if initialized {
			return reverts.New(reverts.InvalidArgument, "ledger already initialized")
		}
		if len(g.Candidates) != len(g.Owners) {
			return reverts.New(reverts.InvalidArgument, "candidates and owners have different lengths")
		}
		if err := s.paramsService.Init(&g.Params); err != nil {
			return err
		}
		for i, c := range g.Candidates {
			owner := g.Owners[i]
			if c.IsZero() || owner.IsZero() {
				return reverts.New(reverts.InvalidArgument, "candidate or owner is the zero address")
			}
			if err := s.registry.Activate(c, owner, g.Params.CandidateSlots); err != nil {
				return err
			}
			if g.Params.MinValidatorStake.Sign() > 0 {
				if _, err := s.ledger.Deposit(c, owner, g.Params.MinValidatorStake); err != nil {
					return err
				}
			}
		}
		s.updateActiveGauge()
		logger.Info("staking initialized", "candidates", len(g.Candidates), "admin", g.Params.Admin)
		return nil
	})
}

// Register activates candidate under owner. Only the admin may register.
func (s *Staking) Register(caller, candidateAddr, owner evr.Address) error {
	logger.Debug("registering candidate", "candidate", candidateAddr, "owner", owner)

	err := s.exec("register", func() error {
		p, _, err := s.loadParams()
		if err != nil {
			return err
		}
		if caller != p.Admin {
			return reverts.New(reverts.Unauthorized, "sender is not admin")
		}
		if candidateAddr.IsZero() || owner.IsZero() {
			return reverts.New(reverts.InvalidArgument, "candidate or owner is the zero address")
		}
		if err := s.registry.Activate(candidateAddr, owner, p.CandidateSlots); err != nil {
			return err
		}
		s.emit(&Event{Kind: EventRegistered, Candidate: candidateAddr, Owner: owner})
		return nil
	})
	if err != nil {
		logger.Info("register candidate failed", "candidate", candidateAddr, "error", err)
		return err
	}
	s.updateActiveGauge()
	logger.Info("registered candidate", "candidate", candidateAddr, "owner", owner)
	return nil
}

// Resign deactivates candidate. The owner stake is reset and queued for
// withdrawal after the owner unlock period. Voter stakes are kept.
func (s *Staking) Resign(caller, candidateAddr evr.Address) error {
	logger.Debug("resigning candidate", "candidate", candidateAddr)

	var epoch uint64
	err := s.exec("resign", func() error {
		p, clock, err := s.loadParams()
		if err != nil {
			return err
		}
		c, err := s.registry.Get(candidateAddr)
		if err != nil {
			return err
		}
		if !c.Active {
			return reverts.New(reverts.NotActive, "only active candidate")
		}
		if caller != c.Owner {
			return reverts.New(reverts.Unauthorized, "sender is not candidate owner")
		}
		if _, err := s.registry.Deactivate(candidateAddr); err != nil {
			return err
		}
		epoch = s.currentEpoch(clock)
		amount, err := s.ledger.Reset(candidateAddr, c.Owner)
		if err != nil {
			return err
		}
		if amount.Sign() > 0 {
			if _, err := s.queue.Push(c.Owner, epoch+p.OwnerUnlockPeriod, amount); err != nil {
				return err
			}
		}
		s.emit(&Event{Kind: EventResigned, Candidate: candidateAddr, Owner: c.Owner, Epoch: epoch})
		return nil
	})
	if err != nil {
		logger.Info("resign candidate failed", "candidate", candidateAddr, "error", err)
		return err
	}
	s.updateActiveGauge()
	logger.Info("resigned candidate", "candidate", candidateAddr, "epoch", epoch)
	return nil
}

// Vote credits amount of the caller to an active candidate.
// The host is expected to have received the value already.
func (s *Staking) Vote(caller, candidateAddr evr.Address, amount *big.Int) error {
	logger.Debug("voting", "candidate", candidateAddr, "staker", caller, "amount", amount)

	err := s.exec("vote", func() error {
		p, _, err := s.loadParams()
		if err != nil {
			return err
		}
		if err := checkAmount(amount); err != nil {
			return err
		}
		active, err := s.registry.IsActive(candidateAddr)
		if err != nil {
			return err
		}
		if !active {
			return reverts.New(reverts.NotActive, "only active candidate")
		}
		balance, err := s.ledger.Balance(candidateAddr, caller)
		if err != nil {
			return err
		}
		if balance.Sign() == 0 && amount.Cmp(p.MinVoterCap) < 0 {
			return reverts.New(reverts.BelowMinimum, "vote amount is below min voter cap")
		}
		if _, err := s.ledger.Deposit(candidateAddr, caller, amount); err != nil {
			return err
		}
		s.emit(&Event{Kind: EventVoted, Candidate: candidateAddr, Staker: caller, Amount: new(big.Int).Set(amount)})
		return nil
	})
	if err != nil {
		logger.Info("vote failed", "candidate", candidateAddr, "staker", caller, "error", err)
		return err
	}
	logger.Info("voted", "candidate", candidateAddr, "staker", caller, "amount", amount)
	return nil
}

// Unvote debits amount from the caller stake and queues it for withdrawal.
func (s *Staking) Unvote(caller, candidateAddr evr.Address, amount *big.Int) error {
	logger.Debug("unvoting", "candidate", candidateAddr, "staker", caller, "amount", amount)

	var unlockEpoch uint64
	err := s.exec("unvote", func() error {
		p, clock, err := s.loadParams()
		if err != nil {
			return err
		}
		if err := checkAmount(amount); err != nil {
			return err
		}
		c, err := s.registry.Get(candidateAddr)
		if err != nil {
			return err
		}
		remaining, err := s.ledger.Withdraw(candidateAddr, caller, amount)
		if err != nil {
			return err
		}
		if remaining.Sign() > 0 && remaining.Cmp(p.MinVoterCap) < 0 {
			return reverts.New(reverts.InvalidResultingBalance, "invalid new stake")
		}
		isOwner := caller == c.Owner
		if isOwner && c.Active && remaining.Sign() > 0 && remaining.Cmp(p.MinValidatorStake) < 0 {
			return reverts.New(reverts.BelowValidatorFloor, "new stake below min validator stake")
		}
		unlockEpoch = s.currentEpoch(clock) + p.VoterUnlockPeriod
		if isOwner {
			unlockEpoch = s.currentEpoch(clock) + p.OwnerUnlockPeriod
		}
		if _, err := s.queue.Push(caller, unlockEpoch, amount); err != nil {
			return err
		}
		s.emit(&Event{Kind: EventUnvoted, Candidate: candidateAddr, Staker: caller, Amount: new(big.Int).Set(amount), Epoch: unlockEpoch})
		return nil
	})
	if err != nil {
		logger.Info("unvote failed", "candidate", candidateAddr, "staker", caller, "error", err)
		return err
	}
	logger.Info("unvoted", "candidate", candidateAddr, "staker", caller, "amount", amount, "unlockEpoch", unlockEpoch)
	return nil
}

// Withdraw pays out the latest pending entry of the caller at epoch.
func (s *Staking) Withdraw(caller evr.Address, epoch uint64, dest evr.Address) (*big.Int, error) {
	return s.withdraw("withdraw", caller, epoch, nil, dest)
}

// WithdrawWithIndex pays out the entry at index of the caller queue, which must belong to epoch.
func (s *Staking) WithdrawWithIndex(caller evr.Address, epoch, index uint64, dest evr.Address) (*big.Int, error) {
	return s.withdraw("withdrawWithIndex", caller, epoch, &index, dest)
}

func (s *Staking) withdraw(method string, caller evr.Address, epoch uint64, index *uint64, dest evr.Address) (*big.Int, error) {
	logger.Debug("withdrawing", "staker", caller, "epoch", epoch, "destination", dest)

	var amount *big.Int
	err := s.exec(method, func() error {
		return s.guard.Run(func() error {
			_, clock, err := s.loadParams()
			if err != nil {
				return err
			}
			if dest.IsZero() {
				return reverts.New(reverts.InvalidArgument, "destination is the zero address")
			}
			if s.currentEpoch(clock) < epoch {
				return reverts.New(reverts.FutureEpoch, "can not withdraw for future epoch")
			}
			total, err := s.queue.CapAt(caller, epoch)
			if err != nil {
				return err
			}
			if total.Sign() == 0 {
				return reverts.New(reverts.ZeroCap, "withdraw cap is 0")
			}

			var target uint64
			if index != nil {
				target = *index
			} else {
				latest, ok, err := s.queue.Latest(caller, epoch)
				if err != nil {
					return err
				}
				if !ok {
					return reverts.New(reverts.ZeroCap, "withdraw cap is 0")
				}
				target = latest
			}

			// the entry is zeroed before the value leaves the ledger
			if amount, err = s.queue.Consume(caller, epoch, target); err != nil {
				return err
			}
			if !s.transferer.Transfer(dest, amount) {
				return reverts.New(reverts.TransferFailed, "transfer failed")
			}
			s.emit(&Event{Kind: EventWithdrawn, Staker: caller, Destination: dest, Amount: new(big.Int).Set(amount), Epoch: epoch})
			return nil
		})
	})
	if err != nil {
		logger.Info("withdraw failed", "staker", caller, "epoch", epoch, "error", err)
		return nil, err
	}
	metricPayoutAmount().Observe(wholeTokens(amount))
	logger.Info("withdrew", "staker", caller, "epoch", epoch, "amount", amount, "destination", dest)
	return amount, nil
}

func (s *Staking) UpdateMaxValidatorSize(caller evr.Address, size uint64) error {
	err := s.exec("updateMaxValidatorSize", func() error {
		return s.paramsService.UpdateMaxValidatorSize(caller, size)
	})
	if err == nil {
		logger.Info("updated max validator size", "size", size)
	}
	return err
}

func (s *Staking) UpdateMinValidatorStake(caller evr.Address, amount *big.Int) error {
	err := s.exec("updateMinValidatorStake", func() error {
		return s.paramsService.UpdateMinValidatorStake(caller, amount)
	})
	if err == nil {
		logger.Info("updated min validator stake", "amount", amount)
	}
	return err
}

func (s *Staking) UpdateMinVoterCap(caller evr.Address, amount *big.Int) error {
	err := s.exec("updateMinVoterCap", func() error {
		return s.paramsService.UpdateMinVoterCap(caller, amount)
	})
	if err == nil {
		logger.Info("updated min voter cap", "amount", amount)
	}
	return err
}

func (s *Staking) TransferAdmin(caller, newAdmin evr.Address) error {
	err := s.exec("transferAdmin", func() error {
		return s.paramsService.TransferAdmin(caller, newAdmin)
	})
	if err == nil {
		logger.Info("transferred admin", "admin", newAdmin)
	}
	return err
}
