// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(lvl slog.Level) (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)
	old := Root()
	var level slog.LevelVar
	level.Set(lvl)
	SetDefault(NewLogger(JSONHandlerWithLevel(buf, &level)))
	return buf, func() { SetDefault(old) }
}

func TestWithContextFollowsRoot(t *testing.T) {
	// created before the root is replaced
	logger := WithContext("pkg", "staking")

	buf, restore := captureLogs(LevelInfo)
	defer restore()

	logger.Debug("hidden")
	logger.Info("voted", "amount", big.NewInt(42))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "staking", rec["pkg"])
	assert.Equal(t, "voted", rec["msg"])
	assert.Equal(t, "info", rec["lvl"])
	assert.Equal(t, "42", rec["amount"])
}

func TestWithContextWith(t *testing.T) {
	buf, restore := captureLogs(LevelTrace)
	defer restore()

	WithContext("pkg", "node").With("height", 7).Trace("block")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "node", rec["pkg"])
	assert.Equal(t, float64(7), rec["height"])
	assert.Equal(t, "trace", rec["lvl"])
}

func TestParseLevel(t *testing.T) {
	for _, l := range []slog.Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelCrit} {
		parsed, err := ParseLevel(LevelString(l))
		assert.NoError(t, err)
		assert.Equal(t, l, parsed)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, LevelCrit, FromLegacyLevel(-1))
}

func TestTerminalHandler(t *testing.T) {
	buf := new(bytes.Buffer)
	var level slog.LevelVar
	level.Set(LevelDebug)
	l := NewLogger(NewTerminalHandlerWithLevel(buf, &level, false))

	l.Trace("nope")
	assert.Empty(t, buf.String())

	l.Info("withdrawn", "amount", big.NewInt(1_000_000), "cap", uint256.NewInt(12), "who", "a b")
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "INFO ["), out)
	assert.Contains(t, out, "amount=1,000,000")
	assert.Contains(t, out, "cap=12")
	assert.Contains(t, out, `who="a b"`)
}

func TestAppendNumbers(t *testing.T) {
	assert.Equal(t, "99999", string(appendInt64(nil, 99999)))
	assert.Equal(t, "-1,234,567", string(appendInt64(nil, -1234567)))
	assert.Equal(t, "18,446,744,073,709,551,615", string(appendUint64(nil, ^uint64(0), false)))

	huge, _ := new(big.Int).SetString("100000000000000000000000", 10)
	assert.Equal(t, "100,000,000,000,000,000,000,000", string(appendBigInt(nil, huge)))
}
