package rules

// Game is one chess game: the live board, the side to move, captures, the
// move list and a snapshot of every position reached. It is not safe for
// concurrent use; check scans borrow the live board while they run.
type Game struct {
	board     Board
	turn      Color
	captured  Captured
	moves     []MoveRecord
	positions []Snapshot
	cursor    int
}

// NewGame starts a game from the standard setup with white to move.
func NewGame() *Game {
	return NewGameFromPosition(StandardBoard(), White)
}

// NewGameFromPosition starts a game from an arbitrary board. The engine does
// not verify that each side has exactly one king.
func NewGameFromPosition(b Board, side Color) *Game {
	g := &Game{board: b, turn: side}
	g.positions = []Snapshot{g.snapshot()}
	return g
}

func (g *Game) snapshot() Snapshot {
	return Snapshot{Board: g.board, Turn: g.turn, Captured: g.captured.clone()}
}

// IsValidMove reports whether the side to move may move the piece on from to
// to by its movement pattern alone. It does not look at check.
func (g *Game) IsValidMove(from, to Square) bool {
	return canMove(&g.board, from, to, g.turn)
}

// TryMove plays from -> to if it is valid and does not leave the mover's own
// king in check. On success the move is recorded, any moves after the history
// cursor are discarded, the turn passes and the new position is snapshotted.
// On failure nothing changes.
func (g *Game) TryMove(from, to Square) bool {
	if !g.IsValidMove(from, to) {
		return false
	}
	side := g.turn
	if g.exposesKing(from, to, side) {
		return false
	}

	mover, taken := g.board.At(from), g.board.At(to)
	g.board.Set(to, mover)
	g.board.Set(from, Piece{})
	if !taken.IsEmpty() {
		g.captured.add(side, taken)
	}

	if g.cursor < len(g.moves) {
		g.moves = g.moves[:g.cursor]
		g.positions = g.positions[:g.cursor+1]
	}
	g.moves = append(g.moves, MoveRecord{Piece: mover, From: from, To: to, Captured: taken})
	g.cursor++
	g.turn = side.Opponent()
	g.positions = append(g.positions, g.snapshot())
	return true
}

// GoToMove restores the position stored at index (0 is the initial position).
// The move list is left alone until the next TryMove branches from here.
func (g *Game) GoToMove(index int) bool {
	if index < 0 || index > len(g.positions)-1 {
		return false
	}
	snap := g.positions[index]
	g.board = snap.Board
	g.turn = snap.Turn
	g.captured = snap.Captured.clone()
	g.cursor = index
	return true
}

// Board returns a copy of the live board.
func (g *Game) Board() Board { return g.board }

// At returns the occupant of sq on the live board.
func (g *Game) At(sq Square) Piece { return g.board.At(sq) }

func (g *Game) SideToMove() Color { return g.turn }

// Captured returns a copy of both capture lists.
func (g *Game) Captured() Captured { return g.captured.clone() }

// Moves returns a copy of the recorded moves, including any that lie beyond
// the cursor after a rewind.
func (g *Game) Moves() []MoveRecord {
	return append([]MoveRecord(nil), g.moves...)
}

// PositionCount is the number of stored snapshots.
func (g *Game) PositionCount() int { return len(g.positions) }

// Cursor is the index of the position currently on the board.
func (g *Game) Cursor() int { return g.cursor }

// Position returns a copy of the snapshot at index.
func (g *Game) Position(index int) (Snapshot, bool) {
	if index < 0 || index >= len(g.positions) {
		return Snapshot{}, false
	}
	return g.positions[index].clone(), true
}

// LastMove returns the move that produced the current position, if any.
func (g *Game) LastMove() (MoveRecord, bool) {
	if g.cursor == 0 || g.cursor > len(g.moves) {
		return MoveRecord{}, false
	}
	return g.moves[g.cursor-1], true
}
