package presenter

import (
	"context"
	"fmt"

	"github.com/park285/hotseat-chess/internal/render"
	"github.com/park285/hotseat-chess/internal/rules"
	"github.com/park285/hotseat-chess/internal/session"
)

// BoardRenderer draws a board position to PNG bytes.
type BoardRenderer interface {
	RenderPNG(ctx context.Context, board rules.Board, opts render.Options) ([]byte, error)
}

// RenderOptions collects the overlays for a view: last move, a king in
// check and, when selected is on a piece, its legal destinations.
func (p *Presenter) RenderOptions(v *session.View, selected *rules.Square) render.Options {
	g := v.Game
	opts := render.Options{
		Header: p.Header(v.Record.ID),
		Turn:   hudTurn(g),
	}
	if last, ok := g.LastMove(); ok {
		opts.LastMove = &render.Move{From: last.From, To: last.To}
	}
	if side := g.SideToMove(); g.IsInCheck(side) {
		b := g.Board()
		if k, ok := b.KingSquare(side); ok {
			opts.Check = &k
		}
	}
	if selected != nil && selected.Valid() {
		sq := *selected
		opts.Selected = &sq
		opts.Targets = g.LegalDestinations(sq)
	}
	return opts
}

// BoardPNG renders v through r.
func (p *Presenter) BoardPNG(ctx context.Context, r BoardRenderer, v *session.View, selected *rules.Square) ([]byte, error) {
	return r.RenderPNG(ctx, v.Game.Board(), p.RenderOptions(v, selected))
}

func hudTurn(g *rules.Game) string {
	turnNumber := g.Cursor()/2 + 1
	return fmt.Sprintf("%s | move %d", sideName(g.SideToMove()), turnNumber)
}
