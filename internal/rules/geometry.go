package rules

// movePattern reports whether piece p may travel from -> to on b, assuming the
// destination holds no friendly piece. It knows nothing about check.
type movePattern func(b *Board, p Piece, from, to Square) bool

var patterns = [...]movePattern{
	Pawn:   pawnMove,
	Knight: knightMove,
	Bishop: bishopMove,
	Rook:   rookMove,
	Queen:  queenMove,
	King:   kingMove,
}

func patternFor(k Kind) movePattern {
	if int(k) >= len(patterns) {
		return nil
	}
	return patterns[k]
}

// canMove is the geometric legality test with the moving side supplied by the
// caller. IsValidMove passes the side to move; check detection passes the
// opponent, which is how an attack is tested "as if it were their turn".
func canMove(b *Board, from, to Square, side Color) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	p := b.At(from)
	if p.IsEmpty() || p.Color != side {
		return false
	}
	if target := b.At(to); !target.IsEmpty() && target.Color == p.Color {
		return false
	}
	pattern := patternFor(p.Kind)
	if pattern == nil {
		return false
	}
	return pattern(b, p, from, to)
}

func pawnMove(b *Board, p Piece, from, to Square) bool {
	dir, home := 1, 1
	if p.Color == Black {
		dir, home = -1, 6
	}
	dr, dc := to.Row-from.Row, to.Col-from.Col
	target := b.At(to)
	switch {
	case dc == 0 && dr == dir:
		return target.IsEmpty()
	case dc == 0 && dr == 2*dir && from.Row == home:
		return target.IsEmpty() && b.At(Square{Row: from.Row + dir, Col: from.Col}).IsEmpty()
	case abs(dc) == 1 && dr == dir:
		return !target.IsEmpty()
	default:
		return false
	}
}

func knightMove(_ *Board, _ Piece, from, to Square) bool {
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)
	return (dr == 2 && dc == 1) || (dr == 1 && dc == 2)
}

func bishopMove(b *Board, _ Piece, from, to Square) bool {
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)
	if dr != dc || dr == 0 {
		return false
	}
	return b.pathClear(from, to)
}

func rookMove(b *Board, _ Piece, from, to Square) bool {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	if (dr == 0) == (dc == 0) {
		return false
	}
	return b.pathClear(from, to)
}

func queenMove(b *Board, p Piece, from, to Square) bool {
	return bishopMove(b, p, from, to) || rookMove(b, p, from, to)
}

// kingMove accepts the zero move; the same-color filter in canMove rejects it.
func kingMove(_ *Board, _ Piece, from, to Square) bool {
	return abs(to.Row-from.Row) <= 1 && abs(to.Col-from.Col) <= 1
}
