// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/evrynet/staking/builtin/staking"
	"github.com/evrynet/staking/builtin/staking/params"
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/state"
)

// DefaultStakingAddress is the ledger account when the document names none.
var DefaultStakingAddress = evr.BytesToAddress([]byte("Staking"))

// Candidate is an initial validator.
type Candidate struct {
	Address evr.Address `yaml:"address"`
	Owner   evr.Address `yaml:"owner"`
}

// Account is a funded address.
type Account struct {
	Address evr.Address `yaml:"address"`
	Balance *Amount     `yaml:"balance"`
}

// Document is the YAML genesis of a staking network.
type Document struct {
	StakingAddress    *evr.Address `yaml:"stakingAddress,omitempty"`
	Admin             evr.Address  `yaml:"admin"`
	EpochPeriod       uint64       `yaml:"epochPeriod"`
	StartBlock        uint64       `yaml:"startBlock"`
	MaxValidatorSize  uint64       `yaml:"maxValidatorSize"`
	MinValidatorStake *Amount      `yaml:"minValidatorStake"`
	MinVoterCap       *Amount      `yaml:"minVoterCap"`
	OwnerUnlockPeriod *uint64      `yaml:"ownerUnlockPeriod,omitempty"`
	VoterUnlockPeriod *uint64      `yaml:"voterUnlockPeriod,omitempty"`
	CandidateSlots    uint64       `yaml:"candidateSlots,omitempty"`
	Candidates        []Candidate  `yaml:"candidates"`
	Accounts          []Account    `yaml:"accounts"`
}

// Parse decodes a YAML document and validates it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the genesis file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Encode renders doc as YAML.
func (d *Document) Encode() ([]byte, error) {
	return yaml.Marshal(d)
}

// Address returns the ledger account.
func (d *Document) Address() evr.Address {
	if d.StakingAddress != nil && !d.StakingAddress.IsZero() {
		return *d.StakingAddress
	}
	return DefaultStakingAddress
}

// Params returns the ledger configuration with defaults applied.
func (d *Document) Params() params.Params {
	p := params.Params{
		Admin:             d.Admin,
		MaxValidatorSize:  d.MaxValidatorSize,
		MinValidatorStake: d.MinValidatorStake.Int(),
		MinVoterCap:       d.MinVoterCap.Int(),
		EpochPeriod:       d.EpochPeriod,
		StartBlock:        d.StartBlock,
		OwnerUnlockPeriod: evr.DefaultOwnerUnlockPeriod,
		VoterUnlockPeriod: evr.DefaultVoterUnlockPeriod,
		CandidateSlots:    d.CandidateSlots,
	}
	if d.OwnerUnlockPeriod != nil {
		p.OwnerUnlockPeriod = *d.OwnerUnlockPeriod
	}
	if d.VoterUnlockPeriod != nil {
		p.VoterUnlockPeriod = *d.VoterUnlockPeriod
	}
	if p.CandidateSlots == 0 {
		p.CandidateSlots = evr.MaxCandidateSlots
	}
	return p
}

// Staking returns the construction parameters of the ledger.
func (d *Document) Staking() *staking.Genesis {
	g := &staking.Genesis{Params: d.Params()}
	for _, c := range d.Candidates {
		g.Candidates = append(g.Candidates, c.Address)
		g.Owners = append(g.Owners, c.Owner)
	}
	return g
}

// Validate checks the document with the ledger construction rules.
func (d *Document) Validate() error {
	if d.MinValidatorStake == nil {
		return errors.New("minValidatorStake must be set")
	}
	if d.MinVoterCap == nil {
		return errors.New("minVoterCap must be set")
	}
	p := d.Params()
	if err := p.Validate(); err != nil {
		return errors.Wrap(err, "invalid params")
	}
	seen := make(map[evr.Address]bool, len(d.Candidates))
	for _, c := range d.Candidates {
		if c.Address.IsZero() || c.Owner.IsZero() {
			return errors.New("candidate address and owner must be set")
		}
		if seen[c.Address] {
			return errors.Errorf("%s: duplicated candidate", c.Address)
		}
		seen[c.Address] = true
	}
	if uint64(len(d.Candidates)) > p.CandidateSlots {
		return errors.Errorf("%d candidates exceed %d slots", len(d.Candidates), p.CandidateSlots)
	}
	for _, a := range d.Accounts {
		if a.Balance == nil {
			return errors.Errorf("%s: balance must be set", a.Address)
		}
		if a.Balance.Int().Sign() < 1 {
			return errors.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
		if a.Address == d.Address() {
			return errors.Errorf("%s: staking account can not be funded directly", a.Address)
		}
	}
	return nil
}

// Locked returns the value held by the ledger account at genesis.
func (d *Document) Locked() *big.Int {
	locked := d.MinValidatorStake.Int()
	return locked.Mul(locked, big.NewInt(int64(len(d.Candidates))))
}

type genesisClock struct{}

func (genesisClock) BlockNumber() uint64 { return 0 }

// Apply funds the accounts and initializes the ledger on st.
func (d *Document) Apply(st *state.State) error {
	for _, a := range d.Accounts {
		if err := st.AddBalance(a.Address, a.Balance.Int()); err != nil {
			return errors.Wrapf(err, "fund %s", a.Address)
		}
	}
	if err := st.AddBalance(d.Address(), d.Locked()); err != nil {
		return errors.Wrap(err, "fund staking account")
	}
	s := staking.New(d.Address(), st, genesisClock{}, nil, nil)
	if err := s.Initialize(d.Staking()); err != nil {
		return errors.Wrap(err, "initialize staking")
	}
	return nil
}
