package service

import (
	"encoding/json"
	"hash/fnv"
	"math/rand"
)

const (
	handRoleCards    = 3
	handSynergyCards = 2
	bingoGridSize    = 5
	bingoGridCells   = bingoGridSize * bingoGridSize
)

func encodeStrings(v []string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeStrings(s string) []string {
	var v []string
	if s == "" {
		return v
	}
	_ = json.Unmarshal([]byte(s), &v)
	return v
}

func encodeInts(v []int) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// dealHand draws n distinct ids from the pool, fewer when the pool is small.
func dealHand(pool []string, n int, rng *rand.Rand) []string {
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// dealBingoGrid fills a 5x5 grid from the content pool, repeating cells when
// the pool is smaller than the grid.
func dealBingoGrid(pool []string, rng *rand.Rand) []string {
	if len(pool) == 0 {
		return nil
	}
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	grid := make([]string, bingoGridCells)
	for i := range grid {
		grid[i] = shuffled[i%len(shuffled)]
	}
	return grid
}

// aiNamePool provides the shared AI identities. Seat names stay stable per
// room across games so returning players see familiar opponents.
var aiNamePool = []string{
	"Finn the Finance Bot",
	"Sage the Strategist",
	"Max the Marketer",
	"Ada the Analyst",
	"Ollie the Operator",
	"Tess the Technologist",
	"Leo the Leader",
	"Vera the Visionary",
}

func aiDisplayName(roomID string, seat int) string {
	h := fnv.New32a()
	h.Write([]byte(roomID))
	idx := (int(h.Sum32()) + seat) % len(aiNamePool)
	if idx < 0 {
		idx += len(aiNamePool)
	}
	return aiNamePool[idx]
}

// lensPool is the fixed persona set participants draw from.
var lensPool = []string{"ceo", "cfo", "cmo", "cto", "coo"}

func randomLens(rng *rand.Rand) string {
	return lensPool[rng.Intn(len(lensPool))]
}
