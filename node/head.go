// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/kv"
)

var (
	nodeBucket = kv.Bucket("n")
	headKey    = []byte("head")
)

// Block is a sealed block of the solo chain.
type Block struct {
	Number    uint64
	StateRoot evr.Bytes32 // digest of the state changes sealed by the block
	Timestamp uint64
	Events    uint64
}

func loadHead(store kv.Store) (*Block, bool, error) {
	data, err := nodeBucket.NewGetter(store).Get(headKey)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var b Block
	if err := rlp.DecodeBytes(data, &b); err != nil {
		return nil, false, err
	}
	return &b, true, nil
}

func saveHead(putter kv.Putter, b *Block) error {
	data, err := rlp.EncodeToBytes(b)
	if err != nil {
		return err
	}
	return nodeBucket.NewPutter(putter).Put(headKey, data)
}
