package notation

import (
	"strings"
	"testing"
	"time"

	"github.com/park285/hotseat-chess/internal/rules"
)

func playUCI(t *testing.T, moves ...string) []rules.MoveRecord {
	t.Helper()
	g := rules.NewGame()
	for _, mv := range moves {
		from, ok1 := rules.ParseSquare(mv[:2])
		to, ok2 := rules.ParseSquare(mv[2:])
		if !ok1 || !ok2 || !g.TryMove(from, to) {
			t.Fatalf("move %s rejected", mv)
		}
	}
	return g.Moves()
}

func TestSAN_FoolsMate(t *testing.T) {
	san := SAN(playUCI(t, "f2f3", "e7e5", "g2g4", "d8h4"))
	want := []string{"f3", "e5", "g4"}
	for i, w := range want {
		if san[i] != w {
			t.Fatalf("san[%d] = %q, want %q", i, san[i], w)
		}
	}
	if !strings.HasPrefix(san[3], "Qh4") {
		t.Fatalf("san[3] = %q", san[3])
	}
}

func TestSAN_CapturesAndPieces(t *testing.T) {
	san := SAN(playUCI(t, "e2e4", "d7d5", "e4d5", "d8d5", "b1c3"))
	want := []string{"e4", "d5", "exd5", "Qxd5", "Nc3"}
	for i, w := range want {
		if san[i] != w {
			t.Fatalf("san[%d] = %q, want %q", i, san[i], w)
		}
	}
}

func TestSAN_FallsBackAfterLastRankPawn(t *testing.T) {
	moves := playUCI(t,
		"a2a4", "b7b5", "a4b5", "a7a6", "b5a6", "c8b7", "a6b7", "b8c6",
		"b7a8", "e7e6",
	)
	san := SAN(moves)
	if len(san) != len(moves) {
		t.Fatalf("len = %d", len(san))
	}
	if san[2] != "axb5" || san[5] != "Bb7" || san[7] != "Nc6" {
		t.Fatalf("san prefix = %v", san[:8])
	}
	if san[8] != "b7xa8" {
		t.Fatalf("fallback capture = %q", san[8])
	}
	if san[9] != "e7-e6" {
		t.Fatalf("fallback after divergence = %q", san[9])
	}
}

func TestSimple(t *testing.T) {
	moves := playUCI(t, "g1f3", "d7d5", "f3e5")
	if s := Simple(moves[0]); s != "Ng1-f3" {
		t.Fatalf("Simple = %q", s)
	}
	if s := Simple(moves[1]); s != "d7-d5" {
		t.Fatalf("Simple = %q", s)
	}
}

func TestPGN(t *testing.T) {
	date := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	pgn := PGN(Header{Date: date, White: `A "quoted" name`, Termination: "Checkmate"},
		[]string{"f3", "e5", "g4", "Qh4#"}, Result(true, rules.Black))
	for _, want := range []string{
		`[Date "2024.03.09"]`,
		`[White "A 'quoted' name"]`,
		`[Black "Black"]`,
		`[Termination "checkmate"]`,
		`[Result "0-1"]`,
		"1. f3 e5 2. g4 Qh4# 0-1",
	} {
		if !strings.Contains(pgn, want) {
			t.Fatalf("pgn missing %q:\n%s", want, pgn)
		}
	}
	odd := PGN(Header{Date: date}, []string{"e4"}, "")
	if !strings.HasSuffix(odd, "1. e4 *") {
		t.Fatalf("odd move list: %q", odd)
	}
}

func TestResult(t *testing.T) {
	if Result(false, rules.White) != "*" || Result(true, rules.White) != "1-0" || Result(true, rules.Black) != "0-1" {
		t.Fatalf("unexpected result tokens")
	}
}
