// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package evr

import (
	"io"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestBlake2b(t *testing.T) {
	data := [][]byte{[]byte("foo"), []byte("bar")}

	joined := Blake2b([]byte("foobar"))
	assert.Equal(t, joined, Blake2b(data...))
	assert.Equal(t, joined, Blake2bFn(func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	}))
	assert.NotEqual(t, joined, Blake2b([]byte("foo")))
}

func TestKeccak256(t *testing.T) {
	assert.Equal(t, Bytes32(crypto.Keccak256Hash([]byte("Voted"))), Keccak256([]byte("Voted")))
	assert.Equal(t, Keccak256([]byte("VotedUnvoted")), Keccak256([]byte("Voted"), []byte("Unvoted")))
}

func TestBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("slot"))
	assert.False(t, b.IsZero())
	assert.True(t, Bytes32{}.IsZero())

	parsed, err := ParseBytes32(b.String())
	assert.NoError(t, err)
	assert.Equal(t, b, parsed)

	_, err = ParseBytes32("0x1234")
	assert.Error(t, err)

	text, err := b.MarshalText()
	assert.NoError(t, err)
	var decoded Bytes32
	assert.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, b, decoded)
}

func TestTokens(t *testing.T) {
	assert.Equal(t, "3000000000000000000", Tokens(3).String())
}
