// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/node"
)

// BlockMessage notifies a sealed block.
type BlockMessage struct {
	Number    uint64      `json:"number"`
	StateRoot evr.Bytes32 `json:"stateRoot"`
	Timestamp uint64      `json:"timestamp"`
	Events    uint64      `json:"events"`
}

func convertBlock(b node.Block) *BlockMessage {
	return &BlockMessage{
		Number:    b.Number,
		StateRoot: b.StateRoot,
		Timestamp: b.Timestamp,
		Events:    b.Events,
	}
}
