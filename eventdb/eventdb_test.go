// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb_test

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrynet/staking/builtin/staking"
	"github.com/evrynet/staking/eventdb"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/test/datagen"
)

func M(a ...any) []any {
	return a
}

func newEvents(candidate, staker evr.Address, n int) []*eventdb.Event {
	var events []*eventdb.Event
	for i := range n {
		ev := &staking.Event{Kind: staking.EventVoted, Candidate: candidate, Staker: staker, Amount: big.NewInt(int64(i + 1))}
		if i%2 == 1 {
			ev = &staking.Event{Kind: staking.EventUnvoted, Candidate: candidate, Staker: staker, Amount: big.NewInt(1), Epoch: 3}
		}
		events = append(events, eventdb.NewEvent(uint64(i/2), uint32(i%2), ev))
	}
	return events
}

func TestEventDB(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	candidate, staker := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, db.Insert(newEvents(candidate, staker, 100)))
	require.NoError(t, db.Insert(nil))

	all, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, all, 100)
	assert.Equal(t, staking.EventVoted, all[0].Kind)
	assert.Equal(t, candidate, all[0].Candidate)
	assert.Equal(t, staker, all[0].Staker)
	assert.True(t, all[0].Owner.IsZero())
	assert.Equal(t, "1", all[0].Amount.String())
	assert.Equal(t, uint64(3), all[1].Epoch)

	limit := 5
	events, err := db.Filter(&eventdb.Filter{
		Range:   &eventdb.Range{From: 0, To: 10},
		Options: &eventdb.Options{Offset: 0, Limit: uint64(limit)},
		Order:   eventdb.ASC,
		Address: &candidate,
		Kinds:   []staking.EventKind{staking.EventUnvoted},
	})
	require.NoError(t, err)
	assert.Len(t, events, limit)
	for _, ev := range events {
		assert.Equal(t, staking.EventUnvoted, ev.Kind)
	}

	events, err = db.Filter(&eventdb.Filter{Order: eventdb.DESC, Range: &eventdb.Range{From: 45, To: 49}})
	require.NoError(t, err)
	require.Len(t, events, 10)
	assert.Equal(t, uint64(49), events[0].BlockNumber)
	assert.Equal(t, uint32(1), events[0].Index)

	stranger := datagen.RandAddress()
	events, err = db.Filter(&eventdb.Filter{Address: &stranger})
	require.NoError(t, err)
	assert.Empty(t, events)

	last, err := db.LastBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(49), last)
}

func TestEventDBDestinationAndResign(t *testing.T) {
	db, err := eventdb.New(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer db.Close()

	last, err := db.LastBlock()
	require.NoError(t, err)
	assert.Zero(t, last)

	staker, dest, candidate := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, db.Insert([]*eventdb.Event{
		eventdb.NewEvent(7, 0, &staking.Event{Kind: staking.EventWithdrawn, Staker: staker, Destination: dest, Amount: evr.Tokens(3), Epoch: 4}),
		eventdb.NewEvent(7, 1, &staking.Event{Kind: staking.EventResigned, Candidate: candidate, Owner: staker, Epoch: 2}),
	}))

	events, err := db.Filter(&eventdb.Filter{Address: &dest})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, evr.Tokens(3).String(), events[0].Amount.String())
	assert.Equal(t, staker, events[0].Staker)

	events, err = db.Filter(&eventdb.Filter{Kinds: []staking.EventKind{staking.EventResigned}})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Amount)
	assert.Equal(t, candidate, events[0].Candidate)
	assert.Equal(t, uint64(2), events[0].Epoch)

	assert.NotEmpty(t, db.SQLiteVersion())
}

func TestEventDBTruncate(t *testing.T) {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	candidate, staker := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, db.Insert(newEvents(candidate, staker, 10)))

	require.NoError(t, db.Truncate(3))
	events, err := db.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, events, 6)
	assert.Equal(t, M(uint64(2), nil), M(db.LastBlock()))

	// nothing above the last block
	require.NoError(t, db.Truncate(100))
	events, err = db.Filter(nil)
	require.NoError(t, err)
	assert.Len(t, events, 6)
}
