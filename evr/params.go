// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package evr

import (
	"math/big"
)

// Constants of the staking ledger.
const (
	// MaxCandidateSlots is the default ceiling of concurrently registered candidates.
	// It is independent of the admin tunable max validator size.
	MaxCandidateSlots uint64 = 128

	// MinMaxValidatorSize is the lowest max validator size accepted at construction.
	MinMaxValidatorSize uint64 = 3

	DefaultOwnerUnlockPeriod uint64 = 2 // epochs
	DefaultVoterUnlockPeriod uint64 = 2 // epochs

	BlockInterval uint64 = 5 // time interval between two consecutive blocks, in seconds.
)

// Ether is the amount of wei in one token.
var Ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// Tokens converts a whole token amount into wei.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Ether)
}
