// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/evrynet/staking/api/utils"
	"github.com/evrynet/staking/builtin/staking"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/log"
	"github.com/evrynet/staking/node"
)

var logger = log.WithContext("pkg", "staking-api")

type Staking struct {
	node *node.Node
}

func New(node *node.Node) *Staking {
	return &Staking{node}
}

func (s *Staking) handleGetCandidates(w http.ResponseWriter, _ *http.Request) error {
	var result *CandidateList
	err := s.node.View(func(st *staking.Staking) error {
		list, err := st.ListCandidates()
		if err != nil {
			return err
		}
		owners := make([]evr.Address, len(list.Candidates))
		for i, c := range list.Candidates {
			if owners[i], err = st.CandidateOwner(c); err != nil {
				return err
			}
		}
		result = convertCandidateList(list, owners)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (s *Staking) handleGetCandidate(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var data *staking.CandidateData
	if err := s.node.View(func(st *staking.Staking) error {
		data, err = st.CandidateData(addr)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Candidate{
		Address:    addr,
		Owner:      data.Owner,
		Active:     data.Active,
		TotalStake: hexOrDecimal(data.TotalStake),
	})
}

func (s *Staking) handleGetVoters(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var result []*VoterStake
	if err := s.node.View(func(st *staking.Staking) error {
		voters, err := st.Voters(addr)
		if err != nil {
			return err
		}
		stakes, err := st.VoterStakes(addr, voters)
		if err != nil {
			return err
		}
		result = make([]*VoterStake, 0, len(voters))
		for i, v := range voters {
			result = append(result, &VoterStake{Voter: v, Stake: hexOrDecimal(stakes[i])})
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (s *Staking) handleGetVoterStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	voter, err := utils.ParseAddress("voter", mux.Vars(req)["voter"])
	if err != nil {
		return err
	}
	var stake *big.Int
	if err := s.node.View(func(st *staking.Staking) error {
		stake, err = st.VoterStake(addr, voter)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &VoterStake{Voter: voter, Stake: hexOrDecimal(stake)})
}

func (s *Staking) handleGetEpoch(w http.ResponseWriter, _ *http.Request) error {
	var result *Epoch
	if err := s.node.View(func(st *staking.Staking) error {
		clock, err := st.Clock()
		if err != nil {
			return err
		}
		current, err := st.CurrentEpoch()
		if err != nil {
			return err
		}
		result = &Epoch{
			Current:     current,
			Period:      clock.Period(),
			StartBlock:  clock.Start(),
			NextEpochAt: clock.FirstBlockOf(current + 1),
		}
		return nil
	}); err != nil {
		return err
	}
	result.BlockNumber = s.node.Head().Number + 1
	return utils.WriteJSON(w, result)
}

func (s *Staking) handleGetWithdrawals(w http.ResponseWriter, req *http.Request) error {
	staker, err := utils.ParseAddress("staker", mux.Vars(req)["staker"])
	if err != nil {
		return err
	}
	if epochArg := req.URL.Query().Get("epoch"); epochArg != "" {
		epoch, err := strconv.ParseUint(epochArg, 0, 64)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "epoch"))
		}
		var capacity *big.Int
		if err := s.node.View(func(st *staking.Staking) error {
			capacity, err = st.WithdrawCap(staker, epoch)
			return err
		}); err != nil {
			return err
		}
		return utils.WriteJSON(w, utils.M{"epoch": epoch, "cap": hexOrDecimal(capacity)})
	}

	var result []*Withdrawal
	if err := s.node.View(func(st *staking.Staking) error {
		pending, err := st.PendingWithdrawals(staker)
		if err != nil {
			return err
		}
		result = convertPending(pending)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (s *Staking) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	var result *Params
	if err := s.node.View(func(st *staking.Staking) error {
		p, err := st.Params()
		if err != nil {
			return err
		}
		result = convertParams(p)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

// apply runs a mutating call and writes its receipt.
func (s *Staking) apply(w http.ResponseWriter, method string, fn func(st *staking.Staking) error) error {
	number, err := s.node.Apply(fn)
	if err != nil {
		logger.Debug("call rejected", "method", method, "error", err)
		return utils.Reverted(err)
	}
	return utils.WriteJSON(w, &Receipt{BlockNumber: number})
}

func (s *Staking) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var body RegisterRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.apply(w, "register", func(st *staking.Staking) error {
		return st.Register(body.Caller, body.Candidate, body.Owner)
	})
}

func (s *Staking) handleResign(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress("address", mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var body ResignRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.apply(w, "resign", func(st *staking.Staking) error {
		return st.Resign(body.Caller, addr)
	})
}

func (s *Staking) handleVote(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	number, err := s.node.Vote(body.Caller, body.Candidate, toBig(body.Amount))
	if err != nil {
		logger.Debug("call rejected", "method", "vote", "error", err)
		return utils.Reverted(err)
	}
	return utils.WriteJSON(w, &Receipt{BlockNumber: number})
}

func (s *Staking) handleUnvote(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.apply(w, "unvote", func(st *staking.Staking) error {
		return st.Unvote(body.Caller, body.Candidate, toBig(body.Amount))
	})
}

func (s *Staking) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	var paid *big.Int
	number, err := s.node.Apply(func(st *staking.Staking) (err error) {
		if body.Index != nil {
			paid, err = st.WithdrawWithIndex(body.Caller, body.Epoch, *body.Index, body.Destination)
		} else {
			paid, err = st.Withdraw(body.Caller, body.Epoch, body.Destination)
		}
		return err
	})
	if err != nil {
		logger.Debug("call rejected", "method", "withdraw", "error", err)
		return utils.Reverted(err)
	}
	return utils.WriteJSON(w, &Receipt{BlockNumber: number, Amount: hexOrDecimal(paid)})
}

func (s *Staking) handleUpdateMaxValidatorSize(w http.ResponseWriter, req *http.Request) error {
	var body SizeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.apply(w, "updateMaxValidatorSize", func(st *staking.Staking) error {
		return st.UpdateMaxValidatorSize(body.Caller, body.Size)
	})
}

func (s *Staking) handleUpdateMinValidatorStake(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.apply(w, "updateMinValidatorStake", func(st *staking.Staking) error {
		return st.UpdateMinValidatorStake(body.Caller, toBig(body.Amount))
	})
}

func (s *Staking) handleUpdateMinVoterCap(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.apply(w, "updateMinVoterCap", func(st *staking.Staking) error {
		return st.UpdateMinVoterCap(body.Caller, toBig(body.Amount))
	})
}

func (s *Staking) handleTransferAdmin(w http.ResponseWriter, req *http.Request) error {
	var body AdminRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.apply(w, "transferAdmin", func(st *staking.Staking) error {
		return st.TransferAdmin(body.Caller, body.NewAdmin)
	})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/candidates").
		Methods(http.MethodGet).
		Name("GET /staking/candidates").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetCandidates))
	sub.Path("/candidates").
		Methods(http.MethodPost).
		Name("POST /staking/candidates").
		HandlerFunc(utils.WrapHandlerFunc(s.handleRegister))
	sub.Path("/candidates/{address}").
		Methods(http.MethodGet).
		Name("GET /staking/candidates/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetCandidate))
	sub.Path("/candidates/{address}/resign").
		Methods(http.MethodPost).
		Name("POST /staking/candidates/{address}/resign").
		HandlerFunc(utils.WrapHandlerFunc(s.handleResign))
	sub.Path("/candidates/{address}/voters").
		Methods(http.MethodGet).
		Name("GET /staking/candidates/{address}/voters").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetVoters))
	sub.Path("/candidates/{address}/voters/{voter}").
		Methods(http.MethodGet).
		Name("GET /staking/candidates/{address}/voters/{voter}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetVoterStake))
	sub.Path("/votes").
		Methods(http.MethodPost).
		Name("POST /staking/votes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleVote))
	sub.Path("/unvotes").
		Methods(http.MethodPost).
		Name("POST /staking/unvotes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUnvote))
	sub.Path("/withdrawals").
		Methods(http.MethodPost).
		Name("POST /staking/withdrawals").
		HandlerFunc(utils.WrapHandlerFunc(s.handleWithdraw))
	sub.Path("/withdrawals/{staker}").
		Methods(http.MethodGet).
		Name("GET /staking/withdrawals/{staker}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetWithdrawals))
	sub.Path("/epoch").
		Methods(http.MethodGet).
		Name("GET /staking/epoch").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetEpoch))
	sub.Path("/params").
		Methods(http.MethodGet).
		Name("GET /staking/params").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetParams))
	sub.Path("/params/max-validator-size").
		Methods(http.MethodPost).
		Name("POST /staking/params/max-validator-size").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUpdateMaxValidatorSize))
	sub.Path("/params/min-validator-stake").
		Methods(http.MethodPost).
		Name("POST /staking/params/min-validator-stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUpdateMinValidatorStake))
	sub.Path("/params/min-voter-cap").
		Methods(http.MethodPost).
		Name("POST /staking/params/min-voter-cap").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUpdateMinVoterCap))
	sub.Path("/params/admin").
		Methods(http.MethodPost).
		Name("POST /staking/params/admin").
		HandlerFunc(utils.WrapHandlerFunc(s.handleTransferAdmin))
}
