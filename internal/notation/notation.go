package notation

import (
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/hotseat-chess/internal/rules"
)

// SAN returns standard algebraic notation for a move list played from the
// standard setup. Moves are replayed through corentings/chess; from the first
// move it refuses (a pawn arriving on the last rank stays a pawn here) the
// rest of the line falls back to Simple with check marks from rules.
func SAN(moves []rules.MoveRecord) []string {
	out := make([]string, 0, len(moves))
	game := nchess.NewGame()
	local := rules.NewGame()
	synced := true
	uci := nchess.UCINotation{}
	for _, m := range moves {
		if !local.TryMove(m.From, m.To) {
			// Not playable from the standard setup; keep the plain form.
			out = append(out, Simple(m))
			synced = false
			continue
		}
		if synced {
			pos := game.Position()
			mv, err := uci.Decode(pos, m.UCI())
			if err == nil {
				if err = game.Move(mv, nil); err == nil {
					out = append(out, nchess.AlgebraicNotation{}.Encode(pos, mv))
					continue
				}
			}
			synced = false
		}
		out = append(out, Simple(m)+suffix(local.Status()))
	}
	return out
}

// Simple is a coordinate form with the piece letter: "Ng1-f3", "e4xd5".
func Simple(m rules.MoveRecord) string {
	var b strings.Builder
	if m.Piece.Kind != rules.Pawn && !m.Piece.IsEmpty() {
		b.WriteByte(m.Piece.Kind.Letter())
	}
	b.WriteString(m.From.String())
	if m.Captured.IsEmpty() {
		b.WriteByte('-')
	} else {
		b.WriteByte('x')
	}
	b.WriteString(m.To.String())
	return b.String()
}

func suffix(s rules.Status) string {
	switch s {
	case rules.Checkmate:
		return "#"
	case rules.Check:
		return "+"
	default:
		return ""
	}
}
