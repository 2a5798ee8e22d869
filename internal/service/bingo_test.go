package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unlockedRow(row int) map[int]bool {
	cells := make(map[int]bool)
	for col := 0; col < bingoGridSize; col++ {
		cells[row*bingoGridSize+col] = true
	}
	return cells
}

func TestCheckForBingos_Row(t *testing.T) {
	lines := CheckForBingos(unlockedRow(2), BingoLines{})
	assert.Equal(t, []int{2}, lines.Rows)
	assert.Empty(t, lines.Columns)
	assert.Empty(t, lines.Diagonals)
}

func TestCheckForBingos_Column(t *testing.T) {
	cells := make(map[int]bool)
	for row := 0; row < bingoGridSize; row++ {
		cells[row*bingoGridSize+4] = true
	}
	lines := CheckForBingos(cells, BingoLines{})
	assert.Equal(t, []int{4}, lines.Columns)
	assert.Empty(t, lines.Rows)
}

func TestCheckForBingos_Diagonals(t *testing.T) {
	cells := make(map[int]bool)
	for i := 0; i < bingoGridSize; i++ {
		cells[i*bingoGridSize+i] = true
		cells[i*bingoGridSize+(bingoGridSize-1-i)] = true
	}
	lines := CheckForBingos(cells, BingoLines{})
	assert.Equal(t, []int{0, 1}, lines.Diagonals)
}

func TestCheckForBingos_CompletedLinesNotRereported(t *testing.T) {
	cells := unlockedRow(2)

	first := CheckForBingos(cells, BingoLines{})
	assert.Equal(t, []int{2}, first.Rows)

	// same inputs again, the row already claimed
	second := CheckForBingos(cells, BingoLines{Rows: first.Rows})
	assert.Empty(t, second.Rows)
	assert.Empty(t, second.Columns)
	assert.Empty(t, second.Diagonals)
}

func TestCheckForBingos_PartialLine(t *testing.T) {
	cells := unlockedRow(1)
	delete(cells, 1*bingoGridSize+3)
	lines := CheckForBingos(cells, BingoLines{})
	assert.Empty(t, lines.Rows)
}

func TestCheckForBingos_FullBoard(t *testing.T) {
	cells := make(map[int]bool)
	for i := 0; i < bingoGridCells; i++ {
		cells[i] = true
	}
	lines := CheckForBingos(cells, BingoLines{})
	assert.Len(t, lines.Rows, 5)
	assert.Len(t, lines.Columns, 5)
	assert.Len(t, lines.Diagonals, 2)
}
