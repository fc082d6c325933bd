// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/evrynet/staking/evr"
)

func RandomHash() evr.Bytes32 {
	var b32 evr.Bytes32

	rand.Read(b32[:])
	return b32
}

func RandAddress() evr.Address {
	var addr evr.Address

	rand.Read(addr[:])
	return addr
}

func RandAddresses(n int) []evr.Address {
	addrs := make([]evr.Address, n)
	for i := range addrs {
		addrs[i] = RandAddress()
	}
	return addrs
}
