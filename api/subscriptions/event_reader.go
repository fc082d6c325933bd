// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/evrynet/staking/api/events"
	"github.com/evrynet/staking/eventdb"
)

// eventReader reads the matching events of the blocks sealed since the last read.
type eventReader struct {
	db     *eventdb.EventDB
	source Source
	filter eventdb.Filter
	from   uint64
}

func newEventReader(db *eventdb.EventDB, source Source, filter eventdb.Filter, from uint64) *eventReader {
	return &eventReader{
		db:     db,
		source: source,
		filter: filter,
		from:   from,
	}
}

func (r *eventReader) Read() ([]any, error) {
	head := r.source.Head().Number
	if r.from > head {
		return nil, nil
	}
	filter := r.filter
	filter.Range = &eventdb.Range{From: r.from, To: head}
	filter.Order = eventdb.ASC
	evs, err := r.db.Filter(&filter)
	if err != nil {
		return nil, err
	}
	r.from = head + 1

	msgs := make([]any, 0, len(evs))
	for _, ev := range evs {
		msgs = append(msgs, events.ConvertEvent(ev))
	}
	return msgs, nil
}

// blockReader reads the head once per sealed block.
type blockReader struct {
	source Source
	last   uint64
}

func (r *blockReader) Read() ([]any, error) {
	head := r.source.Head()
	if head.Number <= r.last {
		return nil, nil
	}
	r.last = head.Number
	return []any{convertBlock(head)}, nil
}
