// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/evrynet/staking/evr"
)

// DevAccounts are the funded accounts of the dev network, admin first.
var DevAccounts = func() []evr.Address {
	names := []string{"dev-admin", "dev-candidate-1", "dev-candidate-2", "dev-owner-2", "dev-voter-1", "dev-voter-2"}
	accounts := make([]evr.Address, 0, len(names))
	for _, name := range names {
		accounts = append(accounts, evr.BytesToAddress(evr.Blake2b([]byte(name)).Bytes()))
	}
	return accounts
}()

// NewDevnet returns the genesis of a local network with two candidates.
func NewDevnet() *Document {
	admin := DevAccounts[0]
	doc := &Document{
		Admin:             admin,
		EpochPeriod:       50,
		StartBlock:        0,
		MaxValidatorSize:  40,
		MinValidatorStake: NewAmount(evr.Tokens(10)),
		MinVoterCap:       NewAmount(evr.Tokens(1)),
		Candidates: []Candidate{
			{Address: DevAccounts[1], Owner: DevAccounts[1]},
			{Address: DevAccounts[2], Owner: DevAccounts[3]},
		},
	}
	for _, a := range DevAccounts {
		doc.Accounts = append(doc.Accounts, Account{Address: a, Balance: NewAmount(evr.Tokens(1_000_000))})
	}
	return doc
}
