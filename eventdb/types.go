// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"

	"github.com/evrynet/staking/builtin/staking"
	"github.com/evrynet/staking/evr"
)

type OrderType string

const (
	ASC  OrderType = "asc"
	DESC OrderType = "desc"
)

// Range is an inclusive block range.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects stored events. Empty fields match everything.
type Filter struct {
	Kinds   []staking.EventKind `json:"kinds"`
	Address *evr.Address        `json:"address"` // matches any address field of an event
	Range   *Range              `json:"range"`
	Order   OrderType           `json:"order"` // default asc
	Options *Options            `json:"options"`
}

// Event is a staking event recorded at a block.
type Event struct {
	BlockNumber uint64
	Index       uint32
	Kind        staking.EventKind
	Candidate   evr.Address
	Staker      evr.Address
	Owner       evr.Address
	Destination evr.Address
	Amount      *big.Int
	Epoch       uint64
}

// NewEvent records ev as the index-th event of block.
func NewEvent(block uint64, index uint32, ev *staking.Event) *Event {
	return &Event{
		BlockNumber: block,
		Index:       index,
		Kind:        ev.Kind,
		Candidate:   ev.Candidate,
		Staker:      ev.Staker,
		Owner:       ev.Owner,
		Destination: ev.Destination,
		Amount:      ev.Amount,
		Epoch:       ev.Epoch,
	}
}
