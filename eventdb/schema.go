// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	blockNumber INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	kind TEXT NOT NULL,
	topic BLOB NOT NULL,
	candidate BLOB,
	staker BLOB,
	owner BLOB,
	destination BLOB,
	amount TEXT,
	epoch INTEGER NOT NULL,
	PRIMARY KEY (blockNumber, eventIndex)
);
CREATE INDEX IF NOT EXISTS idx_event_candidate ON event(candidate);
CREATE INDEX IF NOT EXISTS idx_event_staker ON event(staker);
CREATE INDEX IF NOT EXISTS idx_event_kind ON event(kind);`

const eventColumns = "blockNumber, eventIndex, kind, topic, candidate, staker, owner, destination, amount, epoch"

const selectColumns = "blockNumber, eventIndex, kind, candidate, staker, owner, destination, amount, epoch"
