package service

// BingoLines identifies completed lines on a 5x5 grid by index.
type BingoLines struct {
	Rows      []int `json:"rows"`
	Columns   []int `json:"columns"`
	Diagonals []int `json:"diagonals"` // 0 = top-left/bottom-right, 1 = top-right/bottom-left
}

func containsLine(lines []int, idx int) bool {
	for _, l := range lines {
		if l == idx {
			return true
		}
	}
	return false
}

// CheckForBingos scans every row, column and both diagonals of a 5x5 grid
// for lines newly completed by the unlocked cell set. Lines already present
// in completed are never re-reported, so a repeated call with the same
// inputs returns nothing.
func CheckForBingos(unlocked map[int]bool, completed BingoLines) BingoLines {
	var newLines BingoLines

	for row := 0; row < bingoGridSize; row++ {
		if containsLine(completed.Rows, row) {
			continue
		}
		full := true
		for col := 0; col < bingoGridSize; col++ {
			if !unlocked[row*bingoGridSize+col] {
				full = false
				break
			}
		}
		if full {
			newLines.Rows = append(newLines.Rows, row)
		}
	}

	for col := 0; col < bingoGridSize; col++ {
		if containsLine(completed.Columns, col) {
			continue
		}
		full := true
		for row := 0; row < bingoGridSize; row++ {
			if !unlocked[row*bingoGridSize+col] {
				full = false
				break
			}
		}
		if full {
			newLines.Columns = append(newLines.Columns, col)
		}
	}

	if !containsLine(completed.Diagonals, 0) {
		full := true
		for i := 0; i < bingoGridSize; i++ {
			if !unlocked[i*bingoGridSize+i] {
				full = false
				break
			}
		}
		if full {
			newLines.Diagonals = append(newLines.Diagonals, 0)
		}
	}

	if !containsLine(completed.Diagonals, 1) {
		full := true
		for i := 0; i < bingoGridSize; i++ {
			if !unlocked[i*bingoGridSize+(bingoGridSize-1-i)] {
				full = false
				break
			}
		}
		if full {
			newLines.Diagonals = append(newLines.Diagonals, 1)
		}
	}

	return newLines
}
