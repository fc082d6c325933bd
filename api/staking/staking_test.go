// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrynet/staking/eventdb"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/genesis"
	"github.com/evrynet/staking/lvldb"
	"github.com/evrynet/staking/node"
	"github.com/evrynet/staking/test/datagen"
)

var (
	admin     = genesis.DevAccounts[0]
	candidate = genesis.DevAccounts[1]
	voter     = genesis.DevAccounts[4]
)

func initServer(t *testing.T) (*httptest.Server, *node.Node) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	edb, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { edb.Close() })

	n, err := node.New(db, edb, genesis.NewDevnet(), node.Options{BlockInterval: time.Hour})
	require.NoError(t, err)

	router := mux.NewRouter()
	New(n).Mount(router, "/staking")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, n
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func decode[T any](t *testing.T, data []byte) T {
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestQueries(t *testing.T) {
	ts, _ := initServer(t)

	body, code := httpGet(t, ts.URL+"/staking/candidates")
	require.Equal(t, http.StatusOK, code, string(body))
	list := decode[CandidateList](t, body)
	require.Len(t, list.Candidates, 2)
	assert.Equal(t, candidate, list.Candidates[0].Address)
	assert.Equal(t, candidate, list.Candidates[0].Owner)
	assert.Equal(t, genesis.DevAccounts[3], list.Candidates[1].Owner)
	assert.Equal(t, uint64(40), list.MaxValidatorSize)
	assert.Equal(t, evr.Tokens(10).String(), toBig(list.MinValidatorStake).String())

	body, code = httpGet(t, ts.URL+"/staking/candidates/"+candidate.String())
	require.Equal(t, http.StatusOK, code, string(body))
	c := decode[Candidate](t, body)
	assert.True(t, c.Active)
	assert.Equal(t, evr.Tokens(10).String(), toBig(c.TotalStake).String())

	_, code = httpGet(t, ts.URL+"/staking/candidates/0xbad")
	assert.Equal(t, http.StatusBadRequest, code)

	body, code = httpGet(t, ts.URL+"/staking/epoch")
	require.Equal(t, http.StatusOK, code, string(body))
	epoch := decode[Epoch](t, body)
	assert.Equal(t, Epoch{Current: 0, Period: 50, StartBlock: 0, BlockNumber: 1, NextEpochAt: 50}, epoch)

	body, code = httpGet(t, ts.URL+"/staking/params")
	require.Equal(t, http.StatusOK, code, string(body))
	p := decode[Params](t, body)
	assert.Equal(t, admin, p.Admin)
	assert.Equal(t, uint64(2), p.VoterUnlockPeriod)
	assert.Equal(t, evr.Tokens(1).String(), toBig(p.MinVoterCap).String())
}

func TestVoteUnvoteWithdraw(t *testing.T) {
	ts, n := initServer(t)
	amount := evr.Tokens(5)

	body, code := httpPost(t, ts.URL+"/staking/votes", &StakeRequest{Caller: voter, Candidate: candidate, Amount: hexOrDecimal(amount)})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, uint64(1), decode[Receipt](t, body).BlockNumber)

	body, code = httpGet(t, ts.URL+"/staking/candidates/"+candidate.String()+"/voters")
	require.Equal(t, http.StatusOK, code, string(body))
	voters := decode[[]*VoterStake](t, body)
	require.Len(t, voters, 2)
	assert.Equal(t, voter, voters[1].Voter)
	assert.Equal(t, amount.String(), toBig(voters[1].Stake).String())

	body, code = httpGet(t, ts.URL+"/staking/candidates/"+candidate.String()+"/voters/"+voter.String())
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, amount.String(), toBig(decode[VoterStake](t, body).Stake).String())

	body, code = httpPost(t, ts.URL+"/staking/unvotes", &StakeRequest{Caller: voter, Candidate: candidate, Amount: hexOrDecimal(amount)})
	require.Equal(t, http.StatusOK, code, string(body))

	body, code = httpGet(t, ts.URL+"/staking/withdrawals/"+voter.String())
	require.Equal(t, http.StatusOK, code, string(body))
	pending := decode[[]*Withdrawal](t, body)
	require.Len(t, pending, 1)
	assert.Equal(t, uint64(2), pending[0].Epoch)
	assert.Equal(t, uint64(0), pending[0].Index)

	body, code = httpGet(t, ts.URL+"/staking/withdrawals/"+voter.String()+"?epoch=2")
	require.Equal(t, http.StatusOK, code, string(body))
	assert.JSONEq(t, `{"epoch":2,"cap":"0x4563918244f40000"}`, string(body))

	dest := datagen.RandAddress()
	body, code = httpPost(t, ts.URL+"/staking/withdrawals", &WithdrawRequest{Caller: voter, Epoch: 2, Destination: dest})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "epoch")

	for n.Head().Number < 99 {
		_, err := n.Seal()
		require.NoError(t, err)
	}
	index := uint64(0)
	body, code = httpPost(t, ts.URL+"/staking/withdrawals", &WithdrawRequest{Caller: voter, Epoch: 2, Index: &index, Destination: dest})
	require.Equal(t, http.StatusOK, code, string(body))
	receipt := decode[Receipt](t, body)
	assert.Equal(t, uint64(100), receipt.BlockNumber)
	assert.Equal(t, amount.String(), toBig(receipt.Amount).String())

	balance, err := n.Balance(dest)
	require.NoError(t, err)
	assert.Equal(t, amount.String(), balance.String())
}

func TestRegisterResignAndAdmin(t *testing.T) {
	ts, _ := initServer(t)
	c := datagen.RandAddress()

	_, code := httpPost(t, ts.URL+"/staking/candidates", &RegisterRequest{Caller: voter, Candidate: c, Owner: c})
	assert.Equal(t, http.StatusForbidden, code)

	body, code := httpPost(t, ts.URL+"/staking/candidates", &RegisterRequest{Caller: admin, Candidate: c, Owner: c})
	require.Equal(t, http.StatusOK, code, string(body))

	_, code = httpPost(t, ts.URL+"/staking/candidates", &RegisterRequest{Caller: admin, Candidate: c, Owner: c})
	assert.Equal(t, http.StatusBadRequest, code)

	body, code = httpPost(t, ts.URL+"/staking/candidates/"+c.String()+"/resign", &ResignRequest{Caller: c})
	require.Equal(t, http.StatusOK, code, string(body))
	// a resigned candidate is inactive for every caller
	_, code = httpPost(t, ts.URL+"/staking/candidates/"+c.String()+"/resign", &ResignRequest{Caller: admin})
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpPost(t, ts.URL+"/staking/params/max-validator-size", &SizeRequest{Caller: voter, Size: 10})
	assert.Equal(t, http.StatusForbidden, code)
	body, code = httpPost(t, ts.URL+"/staking/params/max-validator-size", &SizeRequest{Caller: admin, Size: 10})
	require.Equal(t, http.StatusOK, code, string(body))
	body, code = httpPost(t, ts.URL+"/staking/params/min-validator-stake", &AmountRequest{Caller: admin, Amount: hexOrDecimal(big.NewInt(7))})
	require.Equal(t, http.StatusOK, code, string(body))
	body, code = httpPost(t, ts.URL+"/staking/params/min-voter-cap", &AmountRequest{Caller: admin, Amount: hexOrDecimal(big.NewInt(3))})
	require.Equal(t, http.StatusOK, code, string(body))

	newAdmin := datagen.RandAddress()
	body, code = httpPost(t, ts.URL+"/staking/params/admin", &AdminRequest{Caller: admin, NewAdmin: newAdmin})
	require.Equal(t, http.StatusOK, code, string(body))

	body, code = httpGet(t, ts.URL+"/staking/params")
	require.Equal(t, http.StatusOK, code, string(body))
	p := decode[Params](t, body)
	assert.Equal(t, newAdmin, p.Admin)
	assert.Equal(t, uint64(10), p.MaxValidatorSize)
	assert.Equal(t, "7", toBig(p.MinValidatorStake).String())
	assert.Equal(t, "3", toBig(p.MinVoterCap).String())

	_, code = httpPost(t, ts.URL+"/staking/candidates", map[string]any{"unknown": 1})
	assert.Equal(t, http.StatusBadRequest, code)
}
