// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrynet/staking/builtin/staking"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/lvldb"
	"github.com/evrynet/staking/state"
)

const testDoc = `
admin: "0x0000000000000000000000000000000000000a01"
epochPeriod: 50
startBlock: 10
maxValidatorSize: 40
minValidatorStake: 10 ether
minVoterCap: "1000000000000000000"
voterUnlockPeriod: 3
candidates:
  - address: "0x0000000000000000000000000000000000000c01"
    owner: "0x0000000000000000000000000000000000000c01"
  - address: "0x0000000000000000000000000000000000000c02"
    owner: "0x0000000000000000000000000000000000000b02"
accounts:
  - address: "0x0000000000000000000000000000000000000b02"
    balance: "0x3635c9adc5dea00000"
`

func TestAmount(t *testing.T) {
	tests := []struct {
		in       string
		expected *big.Int
		ok       bool
	}{
		{"12", big.NewInt(12), true},
		{"0x10", big.NewInt(16), true},
		{"3 ether", evr.Tokens(3), true},
		{"3ether", evr.Tokens(3), true},
		{"ether", nil, false},
		{"-1", nil, false},
		{"abc", nil, false},
	}
	for _, tt := range tests {
		var a Amount
		err := a.UnmarshalText([]byte(tt.in))
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.expected.String(), a.Int().String())
	}

	text, err := NewAmount(evr.Tokens(2)).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2000000000000000000", string(text))
	assert.Nil(t, (*Amount)(nil).Int())
}

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(testDoc))
	require.NoError(t, err)

	assert.Equal(t, evr.MustParseAddress("0x0000000000000000000000000000000000000a01"), doc.Admin)
	assert.Equal(t, DefaultStakingAddress, doc.Address())

	p := doc.Params()
	assert.Equal(t, uint64(50), p.EpochPeriod)
	assert.Equal(t, uint64(10), p.StartBlock)
	assert.Equal(t, evr.Tokens(10).String(), p.MinValidatorStake.String())
	assert.Equal(t, evr.Tokens(1).String(), p.MinVoterCap.String())
	assert.Equal(t, evr.DefaultOwnerUnlockPeriod, p.OwnerUnlockPeriod)
	assert.Equal(t, uint64(3), p.VoterUnlockPeriod)
	assert.Equal(t, evr.MaxCandidateSlots, p.CandidateSlots)

	g := doc.Staking()
	require.Len(t, g.Candidates, 2)
	assert.Equal(t, evr.MustParseAddress("0x0000000000000000000000000000000000000b02"), g.Owners[1])
	assert.Equal(t, evr.Tokens(1000).String(), doc.Accounts[0].Balance.Int().String())
	assert.Equal(t, evr.Tokens(20).String(), doc.Locked().String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *Document)
	}{
		{"missing stake", func(d *Document) { d.MinValidatorStake = nil }},
		{"missing voter cap", func(d *Document) { d.MinVoterCap = nil }},
		{"zero epoch period", func(d *Document) { d.EpochPeriod = 0 }},
		{"small validator size", func(d *Document) { d.MaxValidatorSize = 2 }},
		{"zero admin", func(d *Document) { d.Admin = evr.Address{} }},
		{"zero owner", func(d *Document) { d.Candidates[0].Owner = evr.Address{} }},
		{"duplicated candidate", func(d *Document) { d.Candidates[1].Address = d.Candidates[0].Address }},
		{"too many candidates", func(d *Document) { d.CandidateSlots = 1 }},
		{"unset balance", func(d *Document) { d.Accounts[0].Balance = nil }},
		{"zero balance", func(d *Document) { d.Accounts[0].Balance = NewAmount(big.NewInt(0)) }},
		{"funded staking account", func(d *Document) { d.Accounts[0].Address = DefaultStakingAddress }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDevnet()
			require.NoError(t, doc.Validate())
			tt.modify(doc)
			assert.Error(t, doc.Validate())
		})
	}
}

func TestLoadAndEncode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	data, err := NewDevnet().Encode()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, NewDevnet().Admin, doc.Admin)
	assert.Len(t, doc.Candidates, 2)
	assert.Len(t, doc.Accounts, len(DevAccounts))
	assert.Equal(t, evr.Tokens(10).String(), doc.MinValidatorStake.Int().String())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = Parse([]byte("admin: [1, 2"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	doc := NewDevnet()
	st := state.New(db, nil)
	require.NoError(t, doc.Apply(st))

	balance, err := st.GetBalance(doc.Address())
	require.NoError(t, err)
	assert.Equal(t, evr.Tokens(20).String(), balance.String())

	balance, err = st.GetBalance(DevAccounts[4])
	require.NoError(t, err)
	assert.Equal(t, evr.Tokens(1_000_000).String(), balance.String())

	s := staking.New(doc.Address(), st, nil, nil, nil)
	list, err := s.ListCandidates()
	require.NoError(t, err)
	assert.Equal(t, []evr.Address{DevAccounts[1], DevAccounts[2]}, list.Candidates)
	owner, err := s.CandidateOwner(DevAccounts[2])
	require.NoError(t, err)
	assert.Equal(t, DevAccounts[3], owner)

	// applying twice fails
	assert.Error(t, doc.Apply(st))
}
