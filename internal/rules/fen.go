package rules

import (
	"fmt"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// FEN encodes the placement and side to move. Castling and en passant do not
// exist in this rule set, so those fields are always "-".
func FEN(b Board, side Color) string {
	var sb strings.Builder
	for row := boardSize - 1; row >= 0; row-- {
		empty := 0
		for col := 0; col < boardSize; col++ {
			p := b[row][col]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.fenLetter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}
	if side == Black {
		sb.WriteString(" b")
	} else {
		sb.WriteString(" w")
	}
	sb.WriteString(" - - 0 1")
	return sb.String()
}

// FEN encodes the current position.
func (g *Game) FEN() string { return FEN(g.board, g.turn) }

// ParseFEN decodes the placement and side-to-move fields. Remaining fields are
// ignored; a missing side field means white.
func ParseFEN(fen string) (Board, Color, error) {
	var b Board
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return b, White, fmt.Errorf("empty fen")
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != boardSize {
		return b, White, fmt.Errorf("fen has %d ranks, want 8", len(ranks))
	}
	for i, rank := range ranks {
		row := boardSize - 1 - i
		col := 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			p, ok := pieceFromLetter(ch)
			if !ok {
				return b, White, fmt.Errorf("fen rank %d: bad piece %q", row+1, ch)
			}
			if col >= boardSize {
				return b, White, fmt.Errorf("fen rank %d overflows", row+1)
			}
			b[row][col] = p
			col++
		}
		if col != boardSize {
			return b, White, fmt.Errorf("fen rank %d has %d files", row+1, col)
		}
	}
	side := White
	if len(fields) > 1 {
		c, ok := ParseColor(fields[1])
		if !ok {
			return b, White, fmt.Errorf("fen side %q", fields[1])
		}
		side = c
	}
	return b, side, nil
}

func pieceFromLetter(ch rune) (Piece, bool) {
	color := White
	if ch >= 'a' && ch <= 'z' {
		color = Black
		ch -= 'a' - 'A'
	}
	for k := Pawn; k <= King; k++ {
		if rune(k.Letter()) == ch {
			return Piece{Kind: k, Color: color}, true
		}
	}
	return Piece{}, false
}
