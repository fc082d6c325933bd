// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/evrynet/staking/evr"
	"github.com/evrynet/staking/state"
)

// Context binds storage helpers to the account holding the storage.
type Context struct {
	address evr.Address
	state   *state.State
}

func NewContext(address evr.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() evr.Address {
	return c.address
}

// Slot derives a storage position from a name, like a solidity state variable declaration.
func Slot(name string) evr.Bytes32 {
	return evr.Keccak256([]byte(name))
}
