package rules

import "strings"

// Color identifies a side.
type Color uint8

const (
	White Color = iota
	Black
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// ParseColor accepts "white"/"w" and "black"/"b" in any case.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, true
	case "black", "b":
		return Black, true
	default:
		return White, false
	}
}

// Kind is the type of a piece. NoKind marks an empty square.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{
	NoKind: "",
	Pawn:   "pawn",
	Knight: "knight",
	Bishop: "bishop",
	Rook:   "rook",
	Queen:  "queen",
	King:   "king",
}

var kindLetters = [...]byte{
	NoKind: ' ',
	Pawn:   'P',
	Knight: 'N',
	Bishop: 'B',
	Rook:   'R',
	Queen:  'Q',
	King:   'K',
}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return ""
	}
	return kindNames[k]
}

// Letter returns the upper-case English piece letter ('P' for pawns).
func (k Kind) Letter() byte {
	if int(k) >= len(kindLetters) {
		return ' '
	}
	return kindLetters[k]
}

// Piece is an immutable value; the zero Piece is an empty square.
type Piece struct {
	Kind  Kind
	Color Color
}

func (p Piece) IsEmpty() bool { return p.Kind == NoKind }

func (p Piece) String() string {
	if p.IsEmpty() {
		return ""
	}
	return p.Color.String() + " " + p.Kind.String()
}

// fenLetter is the piece letter with FEN casing (upper for white).
func (p Piece) fenLetter() byte {
	l := p.Kind.Letter()
	if p.Color == Black {
		l += 'a' - 'A'
	}
	return l
}

// MoveRecord describes one accepted move. Captured is empty when nothing was taken.
type MoveRecord struct {
	Piece    Piece
	From     Square
	To       Square
	Captured Piece
}

// UCI returns the move as a coordinate string such as "e2e4".
func (m MoveRecord) UCI() string { return m.From.String() + m.To.String() }

// Captured holds the pieces each side has taken, in capture order.
// White lists the pieces captured by white.
type Captured struct {
	White []Piece
	Black []Piece
}

// By returns the pieces captured by the given side.
func (c Captured) By(side Color) []Piece {
	if side == Black {
		return c.Black
	}
	return c.White
}

func (c *Captured) add(side Color, p Piece) {
	if side == Black {
		c.Black = append(c.Black, p)
		return
	}
	c.White = append(c.White, p)
}

func (c Captured) clone() Captured {
	return Captured{
		White: append([]Piece(nil), c.White...),
		Black: append([]Piece(nil), c.Black...),
	}
}

// Snapshot is an independent copy of a position in the game history.
type Snapshot struct {
	Board    Board
	Turn     Color
	Captured Captured
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{Board: s.Board, Turn: s.Turn, Captured: s.Captured.clone()}
}

// Status is the derived state of the side to move.
type Status uint8

const (
	Ongoing Status = iota
	Check
	Checkmate
)

func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	default:
		return "ongoing"
	}
}
