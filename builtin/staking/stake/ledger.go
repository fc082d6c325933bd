// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/evrynet/staking/builtin/solidity"
	"github.com/evrynet/staking/builtin/staking/reverts"
	"github.com/evrynet/staking/evr"
)

var (
	slotBalances = evr.BytesToBytes32([]byte(("stake-balances")))
	slotTotals   = evr.BytesToBytes32([]byte(("stake-totals")))
	slotIsVoter  = evr.BytesToBytes32([]byte(("stake-is-voter")))
	slotVoters   = evr.BytesToBytes32([]byte(("stake-voters")))
)

// Ledger holds the stake of every (candidate, staker) pair and the per candidate totals.
// Balances survive resignation of the candidate. Every amount fits in 256 bits.
type Ledger struct {
	sctx    *solidity.Context
	isVoter *solidity.Mapping[evr.Bytes32, bool]
}

func New(sctx *solidity.Context) *Ledger {
	return &Ledger{
		sctx:    sctx,
		isVoter: solidity.NewMapping[evr.Bytes32, bool](sctx, slotIsVoter),
	}
}

func pairKey(candidate, staker evr.Address) evr.Bytes32 {
	return evr.Blake2b(candidate.Bytes(), staker.Bytes())
}

func (l *Ledger) balance(candidate, staker evr.Address) *solidity.Uint256 {
	return solidity.NewUint256(l.sctx, evr.Blake2b(slotBalances.Bytes(), candidate.Bytes(), staker.Bytes()))
}

func (l *Ledger) total(candidate evr.Address) *solidity.Uint256 {
	return solidity.NewUint256(l.sctx, evr.Blake2b(slotTotals.Bytes(), candidate.Bytes()))
}

// voters is the first-vote ordered voter list of a candidate.
func (l *Ledger) voters(candidate evr.Address) *solidity.Array[evr.Address] {
	return solidity.NewArray[evr.Address](l.sctx, evr.Blake2b(slotVoters.Bytes(), candidate.Bytes()))
}

func (l *Ledger) Balance(candidate, staker evr.Address) (*big.Int, error) {
	b, err := l.balance(candidate, staker).Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	return b, nil
}

// Total returns the sum of all balances staked on candidate.
func (l *Ledger) Total(candidate evr.Address) (*big.Int, error) {
	t, err := l.total(candidate).Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total stake")
	}
	return t, nil
}

// Voters returns every staker that ever voted for candidate, in first-vote order.
func (l *Ledger) Voters(candidate evr.Address) ([]evr.Address, error) {
	list, err := l.voters(candidate).All()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list voters")
	}
	return list, nil
}

// Deposit credits amount to the staker balance and the candidate total.
// It returns the new staker balance. A total that would not fit in 256 bits
// is rejected before anything is written.
func (l *Ledger) Deposit(candidate, staker evr.Address, amount *big.Int) (*big.Int, error) {
	// the total bounds every balance of the candidate
	if _, err := l.total(candidate).Add(amount); err != nil {
		if errors.Is(err, solidity.ErrOverflow) {
			return nil, reverts.New(reverts.InvalidArgument, "stake overflows 256 bits")
		}
		return nil, errors.Wrap(err, "failed to add total stake")
	}
	balance, err := l.balance(candidate, staker).Add(amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to add stake")
	}

	key := pairKey(candidate, staker)
	known, err := l.isVoter.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get voter flag")
	}
	if !known {
		if _, err := l.voters(candidate).Push(staker); err != nil {
			return nil, errors.Wrap(err, "failed to append voter")
		}
		if err := l.isVoter.Set(key, true); err != nil {
			return nil, errors.Wrap(err, "failed to set voter flag")
		}
	}
	return balance, nil
}

// Withdraw debits amount from the staker balance and the candidate total.
// It returns the remaining staker balance.
func (l *Ledger) Withdraw(candidate, staker evr.Address, amount *big.Int) (*big.Int, error) {
	balance, err := l.balance(candidate, staker).Sub(amount)
	if err != nil {
		if errors.Is(err, solidity.ErrUnderflow) {
			return nil, reverts.New(reverts.InsufficientBalance, "not enough stake")
		}
		return nil, errors.Wrap(err, "failed to sub stake")
	}
	if _, err := l.total(candidate).Sub(amount); err != nil {
		return nil, errors.Wrap(err, "failed to sub total stake")
	}
	return balance, nil
}

// Reset zeroes the staker balance and returns the amount removed.
func (l *Ledger) Reset(candidate, staker evr.Address) (*big.Int, error) {
	balance, err := l.Balance(candidate, staker)
	if err != nil {
		return nil, err
	}
	if balance.Sign() == 0 {
		return balance, nil
	}
	if _, err := l.Withdraw(candidate, staker, balance); err != nil {
		return nil, err
	}
	return balance, nil
}
