package rules

import "testing"

func TestIsInCheck_RookOnOpenFile(t *testing.T) {
	g := gameFromFEN(t, "4k3/8/8/8/8/8/8/4R2K b - - 0 1")
	if !g.IsInCheck(Black) {
		t.Fatalf("black king on e8 should be in check from e1")
	}
	if g.IsInCheck(White) {
		t.Fatalf("white is not in check")
	}
	if g.SideToMove() != Black {
		t.Fatalf("side to move changed by check scan")
	}

	blocked := gameFromFEN(t, "4k3/4p3/8/8/8/8/8/4R2K b - - 0 1")
	if blocked.IsInCheck(Black) {
		t.Fatalf("blocked file reported as check")
	}
}

func TestIsInCheck_ScansWithOpponentToMove(t *testing.T) {
	// White to move, but the black knight still gives check.
	g := gameFromFEN(t, "4k3/8/8/8/8/3n4/8/4K3 w - - 0 1")
	if !g.IsInCheck(White) {
		t.Fatalf("knight check not detected")
	}
	// Pawn attacks are diagonal only.
	g = gameFromFEN(t, "4k3/8/8/8/8/8/4p3/4K3 w - - 0 1")
	if g.IsInCheck(White) {
		t.Fatalf("pawn directly in front reported as check")
	}
	g = gameFromFEN(t, "4k3/8/8/8/8/8/3p4/4K3 w - - 0 1")
	if !g.IsInCheck(White) {
		t.Fatalf("diagonal pawn check not detected")
	}
}

func TestIsInCheck_NoKing(t *testing.T) {
	g := gameFromFEN(t, "8/8/8/8/8/8/8/R6K w - - 0 1")
	if g.IsInCheck(Black) {
		t.Fatalf("missing king must not be in check")
	}
	if g.IsCheckmate() {
		t.Fatalf("no check, no mate")
	}
}

func TestFoolsMate(t *testing.T) {
	g := NewGame()
	play(t, g, foolsMate...)
	if !g.IsCheckmate() {
		t.Fatalf("expected checkmate after %v", foolsMate)
	}
	if g.Status() != Checkmate {
		t.Fatalf("status = %v", g.Status())
	}
	for i := 0; i < len(foolsMate); i++ {
		if !g.GoToMove(i) {
			t.Fatalf("GoToMove(%d) failed", i)
		}
		if g.IsCheckmate() {
			t.Fatalf("position %d reported as mate", i)
		}
	}
	if !g.GoToMove(len(foolsMate)) || !g.IsCheckmate() {
		t.Fatalf("mate lost after returning to final position")
	}
}

func TestCheckThatCanBeAnswered(t *testing.T) {
	// Rook check along the e-file; white can step aside or capture.
	g := gameFromFEN(t, "4r2k/8/8/8/8/8/8/4K3 w - - 0 1")
	if !g.IsInCheck(White) {
		t.Fatalf("expected check")
	}
	if g.IsCheckmate() {
		t.Fatalf("king can escape, not mate")
	}
	if g.Status() != Check {
		t.Fatalf("status = %v, want check", g.Status())
	}
	// Back-rank mate: king boxed in by its own pawns.
	g = gameFromFEN(t, "6k1/8/8/8/8/8/5PPP/4r1K1 w - - 0 1")
	if !g.IsCheckmate() {
		t.Fatalf("back-rank mate not detected")
	}
	// Same but the rook can be captured.
	g = gameFromFEN(t, "6k1/8/8/8/8/8/5PPP/R3r1K1 w - - 0 1")
	if g.IsCheckmate() {
		t.Fatalf("capturing the checker was not considered")
	}
}

func TestStalemateIsNotCheckmate(t *testing.T) {
	// Black to move has no legal move and is not in check.
	g := gameFromFEN(t, "k7/2Q5/1K6/8/8/8/8/8 b - - 0 1")
	if g.IsCheckmate() {
		t.Fatalf("stalemate must not be reported as checkmate")
	}
	if g.Status() != Ongoing {
		t.Fatalf("status = %v", g.Status())
	}
	if dests := g.LegalDestinations(sq(t, "a8")); len(dests) != 0 {
		t.Fatalf("king should have no moves, got %v", dests)
	}
}

func TestQueriesDoNotMutate(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "f7f6", "d1h5")
	before := g.Board()
	beforeFEN := g.FEN()
	moves := len(g.Moves())
	positions := g.PositionCount()
	for i := 0; i < 3; i++ {
		g.IsInCheck(White)
		g.IsInCheck(Black)
		g.IsCheckmate()
		g.Status()
		for s := range allSquares {
			g.LegalDestinations(s)
		}
	}
	if g.Board() != before || g.FEN() != beforeFEN {
		t.Fatalf("board mutated by queries")
	}
	if g.SideToMove() != Black || len(g.Moves()) != moves || g.PositionCount() != positions || g.Cursor() != 3 {
		t.Fatalf("history mutated by queries")
	}
}

func TestTrialRestoresCapturedOccupant(t *testing.T) {
	g := gameFromFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	e4, d5 := sq(t, "e4"), sq(t, "d5")
	before := g.Board()
	sawCapture := g.trial(e4, d5, func() bool {
		return g.At(d5) == Piece{Kind: Pawn, Color: White} && g.At(e4).IsEmpty()
	})
	if !sawCapture {
		t.Fatalf("trial did not apply the move")
	}
	if g.Board() != before {
		t.Fatalf("trial did not restore the board")
	}
	if g.At(d5) != (Piece{Kind: Pawn, Color: Black}) {
		t.Fatalf("captured pawn not restored: %v", g.At(d5))
	}
}

func TestLegalDestinations(t *testing.T) {
	g := NewGame()
	got := g.LegalDestinations(sq(t, "g1"))
	if len(got) != 2 || got[0] != sq(t, "f3") || got[1] != sq(t, "h3") {
		t.Fatalf("knight destinations = %v", got)
	}
	if got := g.LegalDestinations(sq(t, "e7")); len(got) != 0 {
		t.Fatalf("black piece has destinations on white's turn: %v", got)
	}
	if got := g.LegalDestinations(sq(t, "e4")); got != nil {
		t.Fatalf("empty square has destinations: %v", got)
	}
	if got := g.LegalDestinations(Sq(8, 0)); got != nil {
		t.Fatalf("off-board square has destinations: %v", got)
	}

	// Pinned rook may only slide along the pin.
	g = gameFromFEN(t, "k3r3/8/8/8/8/8/4R3/4K3 w - - 0 1")
	for _, to := range g.LegalDestinations(sq(t, "e2")) {
		if to.Col != 4 {
			t.Fatalf("pinned rook allowed off the file: %s", to)
		}
	}
	if n := len(g.LegalDestinations(sq(t, "e2"))); n != 6 {
		t.Fatalf("pinned rook destinations = %d, want 6", n)
	}
}
