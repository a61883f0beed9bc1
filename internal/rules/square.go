package rules

const boardSize = 8

// Square is a (row, col) pair. Row 0 is white's home rank, col 0 is the a-file.
type Square struct {
	Row int
	Col int
}

// Sq is shorthand for Square{Row: row, Col: col}.
func Sq(row, col int) Square { return Square{Row: row, Col: col} }

// Valid reports whether both coordinates are inside the board.
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < boardSize && s.Col >= 0 && s.Col < boardSize
}

// String returns the algebraic name ("e2"), or "-" for an off-board square.
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.Col), byte('1' + s.Row)})
}

// ParseSquare is the inverse of Square.String. Upper-case files are accepted.
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return Square{}, false
	}
	file, rank := s[0], s[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, false
	}
	return Square{Row: int(rank - '1'), Col: int(file - 'a')}, true
}

// allSquares enumerates the board row by row from white's home rank.
func allSquares(yield func(Square) bool) {
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			if !yield(Square{Row: row, Col: col}) {
				return
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
