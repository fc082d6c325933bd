// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/evrynet/staking/evr"
)

// Amount is a wei amount written as a decimal or 0x-prefixed hex integer,
// optionally followed by the unit "ether".
type Amount big.Int

func NewAmount(v *big.Int) *Amount {
	return (*Amount)(new(big.Int).Set(v))
}

func (a *Amount) Int() *big.Int {
	if a == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(a))
}

func (a *Amount) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	scale := big.NewInt(1)
	if trimmed, ok := strings.CutSuffix(s, "ether"); ok {
		s = strings.TrimSpace(trimmed)
		scale = evr.Ether
	}
	if s == "" {
		return errors.Errorf("invalid amount %q", string(text))
	}
	v, ok := math.ParseBig256(s)
	if !ok || v.Sign() < 0 {
		return errors.Errorf("invalid amount %q", string(text))
	}
	v.Mul(v, scale)
	if v.BitLen() > 256 {
		return errors.Errorf("amount %q overflows 256 bits", string(text))
	}
	(*big.Int)(a).Set(v)
	return nil
}

func (a *Amount) MarshalText() ([]byte, error) {
	return []byte((*big.Int)(a).String()), nil
}
