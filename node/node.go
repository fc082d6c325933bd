// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/evrynet/staking/builtin/staking"
	"github.com/evrynet/staking/builtin/staking/reverts"
	"github.com/evrynet/staking/co"
	"github.com/evrynet/staking/eventdb"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/genesis"
	"github.com/evrynet/staking/kv"
	"github.com/evrynet/staking/log"
	"github.com/evrynet/staking/metrics"
	"github.com/evrynet/staking/state"
)

var (
	logger = log.WithContext("pkg", "node")

	metricBlockHeight = metrics.LazyLoadGauge("node_block_height")
	metricBlockEvents = metrics.LazyLoadCounter("node_block_events_count")
)

type Options struct {
	BlockInterval time.Duration
}

// Node hosts the staking ledger as a single producer chain. Calls are
// executed one at a time against the pending block, a block is sealed on
// every interval.
type Node struct {
	mu      sync.Mutex
	store   kv.Store
	stater  *state.Stater
	eventDB *eventdb.EventDB
	addr    evr.Address
	options Options

	head    Block
	st      *state.State
	staking *staking.Staking
	pending []*eventdb.Event

	newBlock co.Signal
}

// pendingClock reports the number of the block being built. Callers hold the node lock.
type pendingClock struct{ n *Node }

func (c pendingClock) BlockNumber() uint64 { return c.n.head.Number + 1 }

// payout moves value out of the ledger account within the pending state.
type payout struct{ n *Node }

func (p payout) Transfer(to evr.Address, amount *big.Int) bool {
	if err := p.n.st.Transfer(p.n.addr, to, amount); err != nil {
		logger.Warn("payout transfer failed", "to", to, "amount", amount, "error", err)
		return false
	}
	return true
}

// New opens the node on store. An empty store is initialized from doc.
func New(store kv.Store, eventDB *eventdb.EventDB, doc *genesis.Document, options Options) (*Node, error) {
	if options.BlockInterval <= 0 {
		options.BlockInterval = time.Duration(evr.BlockInterval) * time.Second
	}
	n := &Node{
		store:   store,
		stater:  state.NewStater(store),
		eventDB: eventDB,
		addr:    doc.Address(),
		options: options,
	}

	head, found, err := loadHead(store)
	if err != nil {
		return nil, errors.Wrap(err, "load head")
	}
	if found {
		n.head = *head
		// drop events of a block that was never sealed
		if err := eventDB.Truncate(head.Number + 1); err != nil {
			return nil, err
		}
		logger.Info("resumed chain", "number", head.Number, "root", head.StateRoot)
	} else {
		if err := n.initGenesis(doc); err != nil {
			return nil, err
		}
		logger.Info("initialized genesis", "root", n.head.StateRoot, "candidates", len(doc.Candidates))
	}
	n.resetPending()
	metricBlockHeight().Set(int64(n.head.Number))
	return n, nil
}

func (n *Node) initGenesis(doc *genesis.Document) error {
	st := n.stater.NewState()
	if err := doc.Apply(st); err != nil {
		return errors.Wrap(err, "apply genesis")
	}
	root, _, err := n.stater.Commit(st)
	if err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	n.head = Block{Number: 0, StateRoot: root, Timestamp: uint64(time.Now().Unix())}
	return saveHead(n.store, &n.head)
}

func (n *Node) resetPending() {
	n.st = n.stater.NewState()
	n.pending = nil
	n.staking = staking.New(n.addr, n.st, pendingClock{n}, payout{n}, staking.EmitterFunc(func(ev *staking.Event) {
		n.pending = append(n.pending, eventdb.NewEvent(n.head.Number+1, uint32(len(n.pending)), ev))
	}))
}

// StakingAddress returns the ledger account.
func (n *Node) StakingAddress() evr.Address {
	return n.addr
}

// Head returns the last sealed block.
func (n *Node) Head() Block {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.head
}

// NewBlockWaiter returns a channel closed when the next block is sealed.
func (n *Node) NewBlockWaiter() <-chan struct{} {
	return n.newBlock.Wait()
}

func (n *Node) EventDB() *eventdb.EventDB {
	return n.eventDB
}

// View runs fn against the pending state. fn must not mutate.
func (n *Node) View(fn func(s *staking.Staking) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return fn(n.staking)
}

// Balance returns the native balance of addr in the pending state.
func (n *Node) Balance(addr evr.Address) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.st.GetBalance(addr)
}

// Execute runs fn as one call of the pending block. Nothing fn changed is kept when it fails.
func (n *Node) Execute(fn func(s *staking.Staking) error) error {
	_, err := n.Apply(fn)
	return err
}

// Apply is Execute returning the number of the block that includes the call.
func (n *Node) Apply(fn func(s *staking.Staking) error) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	checkpoint := n.st.NewCheckpoint()
	mark := len(n.pending)
	if err := fn(n.staking); err != nil {
		n.st.RevertTo(checkpoint)
		n.pending = n.pending[:mark]
		return 0, err
	}
	return n.head.Number + 1, nil
}

// Vote moves amount from the caller to the ledger account and stakes it on candidate.
func (n *Node) Vote(caller, candidate evr.Address, amount *big.Int) (uint64, error) {
	return n.Apply(func(s *staking.Staking) error {
		if amount != nil && amount.Sign() > 0 {
			if err := n.st.Transfer(caller, n.addr, amount); err != nil {
				if errors.Is(err, state.ErrInsufficientBalance) {
					return reverts.New(reverts.InsufficientBalance, "insufficient funds for vote")
				}
				return err
			}
		}
		return s.Vote(caller, candidate, amount)
	})
}

// Seal commits the pending block and starts a new one.
func (n *Node) Seal() (*Block, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	number := n.head.Number + 1
	if err := n.eventDB.Insert(n.pending); err != nil {
		n.dropEvents(number)
		return nil, errors.Wrap(err, "insert events")
	}
	root, entries, err := n.stater.Commit(n.st)
	if err != nil {
		n.dropEvents(number)
		return nil, errors.Wrap(err, "commit state")
	}
	block := Block{
		Number:    number,
		StateRoot: root,
		Timestamp: uint64(time.Now().Unix()),
		Events:    uint64(len(n.pending)),
	}
	if err := saveHead(n.store, &block); err != nil {
		n.dropEvents(number)
		return nil, errors.Wrap(err, "save head")
	}

	n.head = block
	n.resetPending()
	n.newBlock.Broadcast()

	metricBlockHeight().Set(int64(block.Number))
	metricBlockEvents().Add(int64(block.Events))
	if block.Events > 0 || entries > 0 {
		logger.Info("sealed block", "number", block.Number, "events", block.Events, "changes", entries, "root", block.StateRoot)
	} else {
		logger.Debug("sealed block", "number", block.Number)
	}
	if changed, hit, miss := n.stater.CacheStats(); changed {
		logger.Debug("state cache stats", "hit", hit, "miss", miss)
	}
	return &block, nil
}

// dropEvents removes the events written for a block that failed to seal.
// The node resumes from its saved head, which truncates them again on restart.
func (n *Node) dropEvents(number uint64) {
	if err := n.eventDB.Truncate(number); err != nil {
		logger.Warn("failed to drop events", "number", number, "error", err)
	}
}

// Run seals a block every interval until ctx is done.
func (n *Node) Run(ctx context.Context) error {
	logger.Info("prepared to seal blocks", "interval", n.options.BlockInterval)

	ticker := time.NewTicker(n.options.BlockInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping block sealing......")
			return nil
		case <-ticker.C:
			if _, err := n.Seal(); err != nil {
				logger.Error("failed to seal block", "err", err)
				return err
			}
		}
	}
}
