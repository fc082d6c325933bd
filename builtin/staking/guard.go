// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"sync/atomic"

	"github.com/evrynet/staking/builtin/staking/reverts"
)

const (
	guardIdle uint32 = iota
	guardInProgress
)

// PayoutGuard rejects a payout started while another one is in progress.
type PayoutGuard struct {
	state atomic.Uint32
}

// Run executes fn with the guard held. The guard is released when fn returns.
func (g *PayoutGuard) Run(fn func() error) error {
	if !g.state.CompareAndSwap(guardIdle, guardInProgress) {
		return reverts.New(reverts.Reentrant, "reentrant payout")
	}
	defer g.state.Store(guardIdle)
	return fn()
}

func (g *PayoutGuard) InProgress() bool {
	return g.state.Load() == guardInProgress
}
