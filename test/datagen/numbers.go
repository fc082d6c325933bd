// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"math/big"
	"math/rand"
	mathrand "math/rand/v2"

	fuzz "github.com/google/gofuzz"
)

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandBigIntN returns a value in [0, n).
func RandBigIntN(n *big.Int) *big.Int {
	return new(big.Int).Rand(rand.New(rand.NewSource(mathrand.Int64())), n) //#nosec G404
}

// Fill populates obj with random, non-nil values using a seeded fuzzer,
// so a failing seed can be replayed.
func Fill(seed int64, obj any) {
	fuzz.NewWithSeed(seed).NilChance(0).Fuzz(obj)
}
