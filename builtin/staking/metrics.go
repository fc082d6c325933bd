// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/metrics"
)

var (
	metricCalls            = metrics.LazyLoadCounterVec("staking_calls_count", []string{"method", "outcome"})
	metricPayoutAmount     = metrics.LazyLoadHistogram("staking_payout_amount", metrics.BucketTokens)
	metricActiveCandidates = metrics.LazyLoadGauge("staking_active_candidates")
)

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	return "failure"
}

// wholeTokens converts amount to whole tokens, saturating at the int64 range.
func wholeTokens(amount *big.Int) int64 {
	n := new(big.Int).Quo(amount, evr.Ether)
	if !n.IsInt64() {
		return 1<<63 - 1
	}
	return n.Int64()
}
