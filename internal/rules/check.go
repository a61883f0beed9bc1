package rules

// inCheck reports whether c's king is attacked on b. A board without such a
// king is never in check.
func inCheck(b *Board, c Color) bool {
	king, ok := b.KingSquare(c)
	if !ok {
		return false
	}
	opp := c.Opponent()
	for from := range allSquares {
		p := b.At(from)
		if p.IsEmpty() || p.Color != opp {
			continue
		}
		if canMove(b, from, king, opp) {
			return true
		}
	}
	return false
}

// trial applies from -> to to the live board for the duration of fn and then
// puts back the exact previous occupants of both squares, whatever fn returns.
func (g *Game) trial(from, to Square, fn func() bool) bool {
	mover, occupant := g.board.At(from), g.board.At(to)
	g.board.Set(to, mover)
	g.board.Set(from, Piece{})
	defer func() {
		g.board.Set(from, mover)
		g.board.Set(to, occupant)
	}()
	return fn()
}

// exposesKing reports whether playing from -> to would leave side's king in check.
func (g *Game) exposesKing(from, to Square, side Color) bool {
	return g.trial(from, to, func() bool { return inCheck(&g.board, side) })
}

// IsInCheck reports whether c's king is attacked in the current position.
func (g *Game) IsInCheck(c Color) bool {
	return inCheck(&g.board, c)
}

// IsCheckmate reports whether the side to move is in check and every
// geometrically valid move leaves it in check. A side with no legal moves that
// is not in check is not reported (stalemate is not classified).
func (g *Game) IsCheckmate() bool {
	side := g.turn
	if !g.IsInCheck(side) {
		return false
	}
	for from := range allSquares {
		if p := g.board.At(from); p.IsEmpty() || p.Color != side {
			continue
		}
		for to := range allSquares {
			if !canMove(&g.board, from, to, side) {
				continue
			}
			if !g.exposesKing(from, to, side) {
				return false
			}
		}
	}
	return true
}

// LegalDestinations lists, in row-major order, the squares the piece on sq can
// move to without leaving its own king in check. Pieces that do not belong to
// the side to move have no destinations.
func (g *Game) LegalDestinations(sq Square) []Square {
	if !sq.Valid() {
		return nil
	}
	p := g.board.At(sq)
	if p.IsEmpty() {
		return nil
	}
	var out []Square
	for to := range allSquares {
		if to == sq || !g.IsValidMove(sq, to) {
			continue
		}
		if !g.exposesKing(sq, to, p.Color) {
			out = append(out, to)
		}
	}
	return out
}

// Status classifies the position for the side to move.
func (g *Game) Status() Status {
	switch {
	case g.IsCheckmate():
		return Checkmate
	case g.IsInCheck(g.turn):
		return Check
	default:
		return Ongoing
	}
}
