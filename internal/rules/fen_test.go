package rules

import "testing"

func TestFEN_RoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"4k3/8/8/8/8/8/8/4R2K b - - 0 1",
		"k3r3/8/8/8/8/8/4R3/4K3 w - - 0 1",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 0 1",
	}
	for _, fen := range fens {
		b, side, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := FEN(b, side); got != fen {
			t.Fatalf("FEN round trip: got %q want %q", got, fen)
		}
	}
}

func TestFEN_StandardBoard(t *testing.T) {
	b, side, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if b != StandardBoard() || side != White {
		t.Fatalf("start FEN does not match the standard board")
	}
}

func TestFEN_AfterFoolsMate(t *testing.T) {
	g := NewGame()
	play(t, g, foolsMate...)
	want := "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 0 1"
	if g.FEN() != want {
		t.Fatalf("FEN = %q", g.FEN())
	}
}

func TestParseFEN_Errors(t *testing.T) {
	bad := []string{
		"",
		"8/8/8/8/8/8/8 w",
		"8/8/8/8/8/8/8/9 w",
		"8/8/8/8/8/8/8/7X w",
		"8/8/8/8/8/8/8/ppppppppp w",
		"8/8/8/8/8/8/8/7 w",
		"8/8/8/8/8/8/8/8 x",
	}
	for _, fen := range bad {
		if _, _, err := ParseFEN(fen); err == nil {
			t.Fatalf("ParseFEN(%q) succeeded", fen)
		}
	}
}

func TestSquareNames(t *testing.T) {
	if s := Sq(0, 0).String(); s != "a1" {
		t.Fatalf("a1 = %q", s)
	}
	if s := Sq(7, 7).String(); s != "h8" {
		t.Fatalf("h8 = %q", s)
	}
	if s := Sq(8, 0).String(); s != "-" {
		t.Fatalf("off-board = %q", s)
	}
	for s := range allSquares {
		back, ok := ParseSquare(s.String())
		if !ok || back != s {
			t.Fatalf("ParseSquare(%q) = %v, %v", s.String(), back, ok)
		}
	}
	for _, in := range []string{"", "e", "i1", "a9", "a0", "e22"} {
		if _, ok := ParseSquare(in); ok {
			t.Fatalf("ParseSquare(%q) accepted", in)
		}
	}
	if s, ok := ParseSquare("E4"); !ok || s != Sq(3, 4) {
		t.Fatalf("upper-case file rejected")
	}
}
