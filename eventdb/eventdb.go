// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/evrynet/staking/builtin/staking"
	"github.com/evrynet/staking/evr"
)

// EventDB persists staking events in sqlite.
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

// New open a event db
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// a memory database lives as long as its only connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create event table")
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem create a memory sqlite db
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

func addressValue(addr evr.Address) []byte {
	if addr.IsZero() {
		return nil
	}
	return addr.Bytes()
}

func amountValue(amount *big.Int) any {
	if amount == nil {
		return nil
	}
	return amount.String()
}

// Insert writes events in one transaction.
func (db *EventDB) Insert(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	stmt := "INSERT OR REPLACE INTO event(" + eventColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);"
	for _, ev := range events {
		if _, err = tx.Exec(stmt,
			ev.BlockNumber,
			ev.Index,
			ev.Kind.String(),
			ev.Kind.Topic().Bytes(),
			addressValue(ev.Candidate),
			addressValue(ev.Staker),
			addressValue(ev.Owner),
			addressValue(ev.Destination),
			amountValue(ev.Amount),
			ev.Epoch); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
	}
	return tx.Commit()
}

// Filter return events with options
func (db *EventDB) Filter(filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query("SELECT " + selectColumns + " FROM event ORDER BY blockNumber, eventIndex ASC")
	}
	var args []any
	stmt := "SELECT " + selectColumns + " FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND blockNumber >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND blockNumber <= ?"
		}
	}
	if filter.Address != nil {
		addr := filter.Address.Bytes()
		args = append(args, addr, addr, addr, addr)
		stmt += " AND (candidate = ? OR staker = ? OR owner = ? OR destination = ?)"
	}
	if len(filter.Kinds) > 0 {
		marks := make([]string, 0, len(filter.Kinds))
		for _, k := range filter.Kinds {
			args = append(args, k.String())
			marks = append(marks, "?")
		}
		stmt += " AND kind IN (" + strings.Join(marks, ", ") + ")"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY blockNumber DESC, eventIndex DESC"
	} else {
		stmt += " ORDER BY blockNumber ASC, eventIndex ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(stmt, args...)
}

// LastBlock returns the highest block number holding an event.
func (db *EventDB) LastBlock() (uint64, error) {
	var n sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(blockNumber) FROM event").Scan(&n); err != nil {
		return 0, err
	}
	if !n.Valid {
		return 0, nil
	}
	return uint64(n.Int64), nil
}

func (db *EventDB) query(stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			blockNumber uint64
			index       uint32
			kind        string
			candidate   []byte
			staker      []byte
			owner       []byte
			destination []byte
			amount      sql.NullString
			epoch       uint64
		)
		if err := rows.Scan(
			&blockNumber,
			&index,
			&kind,
			&candidate,
			&staker,
			&owner,
			&destination,
			&amount,
			&epoch,
		); err != nil {
			return nil, err
		}
		k, err := staking.ParseEventKind(kind)
		if err != nil {
			return nil, err
		}
		event := &Event{
			BlockNumber: blockNumber,
			Index:       index,
			Kind:        k,
			Candidate:   evr.BytesToAddress(candidate),
			Staker:      evr.BytesToAddress(staker),
			Owner:       evr.BytesToAddress(owner),
			Destination: evr.BytesToAddress(destination),
			Epoch:       epoch,
		}
		if amount.Valid {
			v, ok := new(big.Int).SetString(amount.String, 10)
			if !ok {
				return nil, errors.Errorf("invalid stored amount %q", amount.String)
			}
			event.Amount = v
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Truncate removes events of blocks from the given number on.
func (db *EventDB) Truncate(blockNum uint64) error {
	if _, err := db.db.Exec("DELETE FROM event WHERE blockNumber >= ?", blockNum); err != nil {
		return errors.Wrap(err, "truncate events")
	}
	return nil
}

// SQLiteVersion returns the version of the linked sqlite library.
func (db *EventDB) SQLiteVersion() string {
	return db.sqliteVersion
}

// Path return db's directory
func (db *EventDB) Path() string {
	return db.path
}

// Close close sqlite
func (db *EventDB) Close() error {
	return db.db.Close()
}
