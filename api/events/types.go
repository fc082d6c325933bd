// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/evrynet/staking/builtin/staking"
	"github.com/evrynet/staking/eventdb"
	"github.com/evrynet/staking/evr"
)

// FilteredEvent is the json form of a recorded staking event.
type FilteredEvent struct {
	BlockNumber uint64                `json:"blockNumber"`
	Index       uint32                `json:"index"`
	Kind        staking.EventKind     `json:"kind"`
	Topic       evr.Bytes32           `json:"topic"`
	Candidate   *evr.Address          `json:"candidate,omitempty"`
	Staker      *evr.Address          `json:"staker,omitempty"`
	Owner       *evr.Address          `json:"owner,omitempty"`
	Destination *evr.Address          `json:"destination,omitempty"`
	Amount      *math.HexOrDecimal256 `json:"amount,omitempty"`
	Epoch       uint64                `json:"epoch"`
}

func optionalAddress(addr evr.Address) *evr.Address {
	if addr.IsZero() {
		return nil
	}
	return &addr
}

// ConvertEvent converts a stored event to its json form.
func ConvertEvent(ev *eventdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		BlockNumber: ev.BlockNumber,
		Index:       ev.Index,
		Kind:        ev.Kind,
		Topic:       ev.Kind.Topic(),
		Candidate:   optionalAddress(ev.Candidate),
		Staker:      optionalAddress(ev.Staker),
		Owner:       optionalAddress(ev.Owner),
		Destination: optionalAddress(ev.Destination),
		Epoch:       ev.Epoch,
	}
	if ev.Amount != nil {
		fe.Amount = (*math.HexOrDecimal256)(new(big.Int).Set(ev.Amount))
	}
	return fe
}
