package rules

import "testing"

func sq(t *testing.T, name string) Square {
	t.Helper()
	s, ok := ParseSquare(name)
	if !ok {
		t.Fatalf("bad square %q", name)
	}
	return s
}

func gameFromFEN(t *testing.T, fen string) *Game {
	t.Helper()
	b, side, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return NewGameFromPosition(b, side)
}

func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		if len(mv) != 4 {
			t.Fatalf("bad move %q", mv)
		}
		if !g.TryMove(sq(t, mv[:2]), sq(t, mv[2:])) {
			t.Fatalf("move %s rejected in %s", mv, g.FEN())
		}
	}
}

// foolsMate is the shortest mate: 1. f3 e5 2. g4 Qh4#.
var foolsMate = []string{"f2f3", "e7e5", "g2g4", "d8h4"}
