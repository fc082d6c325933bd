// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrynet/staking/builtin/solidity"
	"github.com/evrynet/staking/builtin/staking/reverts"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/lvldb"
	"github.com/evrynet/staking/state"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(evr.BytesToAddress([]byte("params")), state.New(db, nil)))
}

func validParams() *Params {
	return &Params{
		Admin:             evr.BytesToAddress([]byte("admin")),
		MaxValidatorSize:  40,
		MinValidatorStake: evr.Tokens(10),
		MinVoterCap:       evr.Tokens(1),
		EpochPeriod:       50,
		StartBlock:        0,
		OwnerUnlockPeriod: evr.DefaultOwnerUnlockPeriod,
		VoterUnlockPeriod: evr.DefaultVoterUnlockPeriod,
		CandidateSlots:    evr.MaxCandidateSlots,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
		ok     bool
	}{
		{"valid", func(*Params) {}, true},
		{"zero epoch period", func(p *Params) { p.EpochPeriod = 0 }, false},
		{"small max validator size", func(p *Params) { p.MaxValidatorSize = 2 }, false},
		{"min max validator size", func(p *Params) { p.MaxValidatorSize = 3 }, true},
		{"zero admin", func(p *Params) { p.Admin = evr.Address{} }, false},
		{"nil min stake", func(p *Params) { p.MinValidatorStake = nil }, false},
		{"negative voter cap", func(p *Params) { p.MinVoterCap = big.NewInt(-1) }, false},
		{"zero slots", func(p *Params) { p.CandidateSlots = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.modify(p)
			err := p.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, reverts.ErrInvalidArgument))
		})
	}
}

func TestInitAndLoad(t *testing.T) {
	svc := newService(t)

	ok, err := svc.Initialized()
	require.NoError(t, err)
	assert.False(t, ok)

	p := validParams()
	require.NoError(t, svc.Init(p))

	ok, err = svc.Initialized()
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, p.Admin, loaded.Admin)
	assert.Equal(t, p.MaxValidatorSize, loaded.MaxValidatorSize)
	assert.Equal(t, 0, p.MinValidatorStake.Cmp(loaded.MinValidatorStake))
	assert.Equal(t, 0, p.MinVoterCap.Cmp(loaded.MinVoterCap))
	assert.Equal(t, p.EpochPeriod, loaded.EpochPeriod)
	assert.Equal(t, p.StartBlock, loaded.StartBlock)
	assert.Equal(t, p.OwnerUnlockPeriod, loaded.OwnerUnlockPeriod)
	assert.Equal(t, p.VoterUnlockPeriod, loaded.VoterUnlockPeriod)
	assert.Equal(t, p.CandidateSlots, loaded.CandidateSlots)
}

func TestAdminUpdates(t *testing.T) {
	svc := newService(t)
	p := validParams()
	require.NoError(t, svc.Init(p))

	stranger := evr.BytesToAddress([]byte("stranger"))

	assert.True(t, errors.Is(svc.UpdateMaxValidatorSize(stranger, 10), reverts.ErrUnauthorized))
	assert.True(t, errors.Is(svc.UpdateMinValidatorStake(stranger, big.NewInt(1)), reverts.ErrUnauthorized))
	assert.True(t, errors.Is(svc.UpdateMinVoterCap(stranger, big.NewInt(1)), reverts.ErrUnauthorized))
	assert.True(t, errors.Is(svc.TransferAdmin(stranger, stranger), reverts.ErrUnauthorized))

	// no bounds re-validation
	require.NoError(t, svc.UpdateMaxValidatorSize(p.Admin, 1))
	size, err := svc.MaxValidatorSize()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), size)

	require.NoError(t, svc.UpdateMinValidatorStake(p.Admin, evr.Tokens(20)))
	stake, err := svc.MinValidatorStake()
	require.NoError(t, err)
	assert.Equal(t, evr.Tokens(20).String(), stake.String())

	require.NoError(t, svc.UpdateMinVoterCap(p.Admin, evr.Tokens(2)))
	voterCap, err := svc.MinVoterCap()
	require.NoError(t, err)
	assert.Equal(t, evr.Tokens(2).String(), voterCap.String())

	assert.True(t, errors.Is(svc.UpdateMinVoterCap(p.Admin, nil), reverts.ErrInvalidArgument))
	assert.True(t, errors.Is(svc.TransferAdmin(p.Admin, evr.Address{}), reverts.ErrInvalidArgument))

	require.NoError(t, svc.TransferAdmin(p.Admin, stranger))
	admin, err := svc.Admin()
	require.NoError(t, err)
	assert.Equal(t, stranger, admin)

	assert.True(t, errors.Is(svc.RequireAdmin(p.Admin), reverts.ErrUnauthorized))
	assert.NoError(t, svc.RequireAdmin(stranger))
}
