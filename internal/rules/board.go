package rules

// Board maps every square to an optional piece. It is a value type: assigning a
// Board copies all 64 squares, so snapshots never share state with the live board.
type Board [boardSize][boardSize]Piece

var backRank = [boardSize]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StandardBoard returns the initial chess setup.
func StandardBoard() Board {
	var b Board
	for col, kind := range backRank {
		b[0][col] = Piece{Kind: kind, Color: White}
		b[1][col] = Piece{Kind: Pawn, Color: White}
		b[6][col] = Piece{Kind: Pawn, Color: Black}
		b[7][col] = Piece{Kind: kind, Color: Black}
	}
	return b
}

// At returns the occupant of sq; off-board squares read as empty.
func (b *Board) At(sq Square) Piece {
	if !sq.Valid() {
		return Piece{}
	}
	return b[sq.Row][sq.Col]
}

// Set places p on sq. Writes to off-board squares are ignored.
func (b *Board) Set(sq Square, p Piece) {
	if !sq.Valid() {
		return
	}
	b[sq.Row][sq.Col] = p
}

// KingSquare locates the king of the given color.
func (b *Board) KingSquare(c Color) (Square, bool) {
	want := Piece{Kind: King, Color: c}
	for sq := range allSquares {
		if b.At(sq) == want {
			return sq, true
		}
	}
	return Square{}, false
}

// pathClear walks the straight line strictly between from and to and fails on
// the first occupied square. Callers guarantee the two squares share a rank,
// file or diagonal.
func (b *Board) pathClear(from, to Square) bool {
	dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	for cur := (Square{Row: from.Row + dr, Col: from.Col + dc}); cur != to; cur = (Square{Row: cur.Row + dr, Col: cur.Col + dc}) {
		if !b.At(cur).IsEmpty() {
			return false
		}
	}
	return true
}
