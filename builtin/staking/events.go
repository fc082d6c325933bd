// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/evrynet/staking/evr"
)

// EventKind identifies an emitted fact.
type EventKind uint8

const (
	EventRegistered EventKind = iota + 1
	EventResigned
	EventVoted
	EventUnvoted
	EventWithdrawn
)

var eventNames = map[EventKind]string{
	EventRegistered: "Registered",
	EventResigned:   "Resigned",
	EventVoted:      "Voted",
	EventUnvoted:    "Unvoted",
	EventWithdrawn:  "Withdrawn",
}

var eventSignatures = map[EventKind]string{
	EventRegistered: "Registered(address,address)",
	EventResigned:   "Resigned(address,uint256)",
	EventVoted:      "Voted(address,address,uint256)",
	EventUnvoted:    "Unvoted(address,address,uint256)",
	EventWithdrawn:  "Withdrawn(address,uint256,address)",
}

func (k EventKind) String() string {
	return eventNames[k]
}

// Topic is the keccak256 hash of the event signature.
func (k EventKind) Topic() evr.Bytes32 {
	return evr.Keccak256([]byte(eventSignatures[k]))
}

func (k EventKind) MarshalText() ([]byte, error) {
	name, ok := eventNames[k]
	if !ok {
		return nil, errors.Errorf("unknown event kind %d", uint8(k))
	}
	return []byte(name), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	kind, err := ParseEventKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

func ParseEventKind(s string) (EventKind, error) {
	for k, name := range eventNames {
		if name == s {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown event kind %q", s)
}

// Event is a fact emitted by a successful call.
// Fields not carried by a kind are left zero.
type Event struct {
	Kind        EventKind
	Candidate   evr.Address
	Staker      evr.Address
	Owner       evr.Address
	Destination evr.Address
	Amount      *big.Int
	Epoch       uint64
}

// Emitter receives the events of each successful top level call, in order.
type Emitter interface {
	Emit(ev *Event)
}

type EmitterFunc func(ev *Event)

func (f EmitterFunc) Emit(ev *Event) { f(ev) }

var noopEmitter = EmitterFunc(func(*Event) {})
