// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evrynet/staking/builtin/staking/reverts"
)

func TestPayoutGuard(t *testing.T) {
	var g PayoutGuard
	assert.False(t, g.InProgress())

	var inner error
	err := g.Run(func() error {
		assert.True(t, g.InProgress())
		inner = g.Run(func() error { return nil })
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, errors.Is(inner, reverts.ErrReentrant))
	assert.False(t, g.InProgress())

	// released on failure
	boom := errors.New("boom")
	assert.Equal(t, boom, g.Run(func() error { return boom }))
	assert.False(t, g.InProgress())

	// released on panic
	assert.Panics(t, func() {
		_ = g.Run(func() error { panic("transfer panicked") })
	})
	assert.False(t, g.InProgress())
}
