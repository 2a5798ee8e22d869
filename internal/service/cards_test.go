package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealHand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pool := []string{"a", "b", "c", "d", "e"}

	hand := dealHand(pool, 3, rng)
	require.Len(t, hand, 3)

	seen := map[string]bool{}
	for _, c := range hand {
		assert.False(t, seen[c], "hand contains duplicate %s", c)
		seen[c] = true
		assert.Contains(t, pool, c)
	}
}

func TestDealHand_SmallPool(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	hand := dealHand([]string{"a"}, 3, rng)
	assert.Equal(t, []string{"a"}, hand)
}

func TestDealBingoGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	grid := dealBingoGrid([]string{"a", "b", "c"}, rng)
	require.Len(t, grid, bingoGridCells)
	for _, cell := range grid {
		assert.Contains(t, []string{"a", "b", "c"}, cell)
	}

	assert.Nil(t, dealBingoGrid(nil, rng))
}

func TestAIDisplayName_StablePerRoom(t *testing.T) {
	a := aiDisplayName("room-1", 0)
	b := aiDisplayName("room-1", 0)
	assert.Equal(t, a, b)

	// consecutive seats in one room get distinct identities
	c := aiDisplayName("room-1", 1)
	assert.NotEqual(t, a, c)
}

func TestEncodeDecodeStrings(t *testing.T) {
	ids := []string{"r1", "r2"}
	assert.Equal(t, ids, decodeStrings(encodeStrings(ids)))
	assert.Nil(t, decodeStrings(""))
}
