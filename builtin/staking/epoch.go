// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/evrynet/staking/builtin/staking/reverts"
)

// EpochClock maps block heights to epochs of a fixed number of blocks.
type EpochClock struct {
	period uint64
	start  uint64
}

func NewEpochClock(period, start uint64) (*EpochClock, error) {
	if period == 0 {
		return nil, reverts.New(reverts.InvalidArgument, "epoch period must be positive")
	}
	return &EpochClock{period: period, start: start}, nil
}

func (c *EpochClock) Period() uint64 { return c.period }
func (c *EpochClock) Start() uint64  { return c.start }

// EpochOf returns the epoch containing block. Blocks before the start belong to epoch 0.
func (c *EpochClock) EpochOf(block uint64) uint64 {
	if block < c.start {
		return 0
	}
	return (block - c.start) / c.period
}

// FirstBlockOf returns the first block of epoch.
func (c *EpochClock) FirstBlockOf(epoch uint64) uint64 {
	return epoch*c.period + c.start
}
