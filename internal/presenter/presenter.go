package presenter

import (
	"strconv"
	"strings"

	"github.com/park285/hotseat-chess/internal/msgcat"
	"github.com/park285/hotseat-chess/internal/notation"
	"github.com/park285/hotseat-chess/internal/rules"
	"github.com/park285/hotseat-chess/internal/session"
	"github.com/park285/hotseat-chess/pkg/chessdto"
)

// Presenter turns rebuilt games into DTOs and display text.
type Presenter struct {
	cat *msgcat.Catalog
}

func New(cat *msgcat.Catalog) *Presenter {
	if cat == nil {
		cat = msgcat.Default()
	}
	return &Presenter{cat: cat}
}

func sideName(c rules.Color) string {
	if c == rules.Black {
		return "Black"
	}
	return "White"
}

// TurnText is the "Current Turn" line.
func (p *Presenter) TurnText(side rules.Color) string {
	name := sideName(side)
	return p.cat.RenderOr("turn.current", "Current Turn: "+name, map[string]any{"Side": name})
}

// StatusText is the check or checkmate banner, empty while the game is quiet.
func (p *Presenter) StatusText(status rules.Status, side rules.Color) string {
	switch status {
	case rules.Checkmate:
		winner := sideName(side.Opponent())
		return p.cat.RenderOr("status.checkmate", "Checkmate! "+winner+" wins!", map[string]any{"Winner": winner})
	case rules.Check:
		return p.cat.RenderOr("status.check", "Check!", nil)
	default:
		return ""
	}
}

// PositionText names the viewed position while the cursor is rewound, empty
// at the latest position.
func (p *Presenter) PositionText(cursor, positionCount int) string {
	last := positionCount - 1
	if cursor >= last {
		return ""
	}
	fallback := "Position " + strconv.Itoa(cursor) + " of " + strconv.Itoa(last)
	return p.cat.RenderOr("position.viewing", fallback, map[string]any{"Cursor": cursor, "Last": last})
}

// History formats the paired move rows.
func (p *Presenter) History(moves []rules.MoveRecord) []string {
	rows := MoveRows(moves)
	out := make([]string, len(rows))
	for i, r := range rows {
		fallback := strings.TrimSpace(strings.Join([]string{strconv.Itoa(r.Number) + ".", r.White, r.Black}, " "))
		out[i] = p.cat.RenderOr("move.history_row", fallback, map[string]any{
			"Number": r.Number, "White": r.White, "Black": r.Black,
		})
	}
	return out
}

// CapturedText lists the pieces side has taken as unicode glyphs.
func (p *Presenter) CapturedText(side rules.Color, pieces []rules.Piece) string {
	list := p.cat.RenderOr("captured.none", "none", nil)
	if len(pieces) > 0 {
		list = strings.Join(symbolList(pieces), " ")
	}
	name := sideName(side)
	return p.cat.RenderOr("captured.line", "Captured by "+name+": "+list, map[string]any{"Side": name, "Pieces": list})
}

// MoveMessage describes the outcome of a move attempt.
func (p *Presenter) MoveMessage(accepted bool, from, to string, g *rules.Game) string {
	if !accepted {
		name := sideName(g.SideToMove())
		return p.cat.RenderOr("move.rejected", "Illegal move "+from+"-"+to, map[string]any{"From": from, "To": to, "Side": name})
	}
	last, ok := g.LastMove()
	if !ok {
		return ""
	}
	name := sideName(last.Piece.Color)
	msg := p.cat.RenderOr("move.accepted", name+" played "+MoveText(last), map[string]any{"Side": name, "Move": MoveText(last)})
	if banner := p.StatusText(g.Status(), g.SideToMove()); banner != "" {
		msg += " " + banner
	}
	return msg
}

// Header is the board image title.
func (p *Presenter) Header(id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return p.cat.RenderOr("board.header", "Game "+short, map[string]any{"ID": short})
}

// State builds the API view of a game at its cursor.
func (p *Presenter) State(v *session.View) *chessdto.GameState {
	g, rec := v.Game, v.Record
	side := g.SideToMove()
	status := g.Status()
	moves := g.Moves()
	captured := g.Captured()

	san := notation.SAN(moves)
	entries := make([]chessdto.MoveEntry, len(moves))
	for i, m := range moves {
		entries[i] = chessdto.MoveEntry{
			Number:  i/2 + 1,
			Color:   m.Piece.Color.String(),
			Piece:   m.Piece.Kind.String(),
			From:    m.From.String(),
			To:      m.To.String(),
			SAN:     san[i],
			Display: MoveText(m),
		}
		if !m.Captured.IsEmpty() {
			entries[i].Captured = m.Captured.Kind.String()
		}
	}

	st := &chessdto.GameState{
		ID:            rec.ID,
		Status:        string(rec.Status),
		Turn:          side.String(),
		Check:         status != rules.Ongoing,
		Checkmate:     status == rules.Checkmate,
		Winner:        rec.Winner,
		FEN:           g.FEN(),
		Board:         BoardRows(g.Board()),
		Moves:         entries,
		Cursor:        g.Cursor(),
		PositionCount: g.PositionCount(),
		Captured: chessdto.CapturedPieces{
			White: symbolList(captured.White),
			Black: symbolList(captured.Black),
		},
		Material: chessdto.MaterialScore{
			White: material(captured.White),
			Black: material(captured.Black),
		},
		TurnText:     p.TurnText(side),
		StatusText:   p.StatusText(status, side),
		PositionText: p.PositionText(g.Cursor(), g.PositionCount()),
		History:      p.History(moves),
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	return st
}

func symbolList(pieces []rules.Piece) []string {
	out := make([]string, len(pieces))
	for i, pc := range pieces {
		out[i] = Symbol(pc)
	}
	return out
}

