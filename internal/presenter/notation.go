package presenter

import (
	"strings"

	"github.com/park285/hotseat-chess/internal/rules"
)

const files = "abcdefgh"

// DisplaySquare is the move-list label for a square: file letter plus
// 8 - row. It differs from rules.Square.String and is used only in the
// formatted move history.
func DisplaySquare(sq rules.Square) string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{files[sq.Col], byte('0' + 8 - sq.Row)})
}

// MoveText formats a move for the history list: piece letter (none for
// pawns) followed by from-to.
func MoveText(m rules.MoveRecord) string {
	var b strings.Builder
	if m.Piece.Kind != rules.Pawn && !m.Piece.IsEmpty() {
		b.WriteByte(m.Piece.Kind.Letter())
	}
	b.WriteString(DisplaySquare(m.From))
	b.WriteByte('-')
	b.WriteString(DisplaySquare(m.To))
	return b.String()
}

// MoveRow pairs a white move with the black reply.
type MoveRow struct {
	Number int
	White  string
	Black  string
}

func MoveRows(moves []rules.MoveRecord) []MoveRow {
	rows := make([]MoveRow, 0, (len(moves)+1)/2)
	for i := 0; i < len(moves); i += 2 {
		row := MoveRow{Number: i/2 + 1, White: MoveText(moves[i])}
		if i+1 < len(moves) {
			row.Black = MoveText(moves[i+1])
		}
		rows = append(rows, row)
	}
	return rows
}

var symbols = map[rules.Piece]string{
	{Kind: rules.King, Color: rules.White}:   "♔",
	{Kind: rules.Queen, Color: rules.White}:  "♕",
	{Kind: rules.Rook, Color: rules.White}:   "♖",
	{Kind: rules.Bishop, Color: rules.White}: "♗",
	{Kind: rules.Knight, Color: rules.White}: "♘",
	{Kind: rules.Pawn, Color: rules.White}:   "♙",
	{Kind: rules.King, Color: rules.Black}:   "♚",
	{Kind: rules.Queen, Color: rules.Black}:  "♛",
	{Kind: rules.Rook, Color: rules.Black}:   "♜",
	{Kind: rules.Bishop, Color: rules.Black}: "♝",
	{Kind: rules.Knight, Color: rules.Black}: "♞",
	{Kind: rules.Pawn, Color: rules.Black}:   "♟",
}

// Symbol returns the unicode chess glyph for p, or "" for an empty square.
func Symbol(p rules.Piece) string { return symbols[p] }

var pieceValues = [...]int{
	rules.Pawn:   1,
	rules.Knight: 3,
	rules.Bishop: 3,
	rules.Rook:   5,
	rules.Queen:  9,
	rules.King:   0,
}

func material(pieces []rules.Piece) int {
	total := 0
	for _, p := range pieces {
		if int(p.Kind) < len(pieceValues) {
			total += pieceValues[p.Kind]
		}
	}
	return total
}

// BoardRows renders the board as eight strings, rank 8 first, using FEN
// letters and '.' for empty squares.
func BoardRows(b rules.Board) []string {
	fen := rules.FEN(b, rules.White)
	placement := fen[:strings.IndexByte(fen, ' ')]
	rows := strings.Split(placement, "/")
	for i, r := range rows {
		var sb strings.Builder
		for _, ch := range r {
			if ch >= '1' && ch <= '8' {
				sb.WriteString(strings.Repeat(".", int(ch-'0')))
				continue
			}
			sb.WriteRune(ch)
		}
		rows[i] = sb.String()
	}
	return rows
}
