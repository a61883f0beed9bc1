package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultMessages(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("status.checkmate", map[string]any{"Winner": "Black"})
	if err != nil || got != "Checkmate! Black wins!" {
		t.Fatalf("Render = %q, %v", got, err)
	}
	got, _ = c.Render("move.history_row", map[string]any{"Number": 1, "White": "e2-e4", "Black": ""})
	if got != "1. e2-e4" {
		t.Fatalf("history row = %q", got)
	}
	if _, err := c.Render("turn.current", map[string]any{}); err == nil {
		t.Fatalf("missing data key should fail")
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatalf("unknown key should fail")
	}
	if c.RenderOr("no.such.key", "fallback", nil) != "fallback" {
		t.Fatalf("RenderOr did not fall back")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	write("a.yaml", "status:\n  check: \"Schach!\"\n")
	write("notes.txt", "ignored")
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, _ := c.Render("status.check", nil); got != "Schach!" {
		t.Fatalf("override not applied: %q", got)
	}
	if got, _ := c.Render("turn.current", map[string]any{"Side": "White"}); got != "Current Turn: White" {
		t.Fatalf("default lost: %q", got)
	}

	write("b.yml", "status:\n  check: \"Echec!\"\n")
	if _, err := New(dir); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestRejectsNonStringLeaves(t *testing.T) {
	if _, err := parseYAMLToFlat([]byte("a:\n  b: 3\n")); err == nil {
		t.Fatalf("expected error for numeric leaf")
	}
}
