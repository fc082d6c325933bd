// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"github.com/evrynet/staking/evr"
)

// Candidate is the registry record of a candidate address.
// Records are never deleted, a resigned candidate keeps its last owner.
type Candidate struct {
	Owner  evr.Address
	Active bool
	Slot   uint64 // position in the active list plus one, 0 when inactive
}

func (c *Candidate) IsEmpty() bool {
	return c == nil || (c.Owner.IsZero() && !c.Active)
}
