package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/park285/hotseat-chess/internal/msgcat"
	"github.com/park285/hotseat-chess/internal/presenter"
	"github.com/park285/hotseat-chess/internal/render"
	"github.com/park285/hotseat-chess/internal/session"
	"github.com/park285/hotseat-chess/pkg/chessdto"
)

func newTestServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()
	m := session.NewManager(session.NewMemoryStore(time.Hour))
	s := NewServer(m, presenter.New(msgcat.Default()), render.NewRenderer(32))
	return s, m
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func createGame(t *testing.T, h http.Handler) *chessdto.GameState {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/games", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	st := decode[chessdto.GameState](t, rec)
	return &st
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	st := createGame(t, h)
	if st.ID == "" || st.Turn != "white" || st.PositionCount != 1 || st.Cursor != 0 {
		t.Fatalf("unexpected new game: %+v", st)
	}
	if st.Board[0] != "rnbqkbnr" || st.Board[7] != "RNBQKBNR" {
		t.Fatalf("unexpected board: %v", st.Board)
	}

	rec := do(t, h, http.MethodGet, "/api/games/"+st.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	if got := decode[chessdto.GameState](t, rec); got.ID != st.ID {
		t.Fatalf("get returned %q", got.ID)
	}
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/api/games/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if e := decode[chessdto.DomainError](t, rec); e.Code != chessdto.CodeNotFound {
		t.Fatalf("code = %q", e.Code)
	}
}

func TestMove_AcceptedAndRejected(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	st := createGame(t, h)

	rec := do(t, h, http.MethodPost, "/api/games/"+st.ID+"/moves", chessdto.MoveRequest{From: "E2", To: " e4 "})
	if rec.Code != http.StatusOK {
		t.Fatalf("move: status %d body %s", rec.Code, rec.Body.String())
	}
	res := decode[chessdto.MoveResponse](t, rec)
	if !res.Accepted || res.State.Turn != "black" || len(res.State.Moves) != 1 {
		t.Fatalf("unexpected move response: %+v", res)
	}
	if res.State.Moves[0].SAN != "e4" {
		t.Fatalf("SAN = %q", res.State.Moves[0].SAN)
	}

	// white cannot move twice
	rec = do(t, h, http.MethodPost, "/api/games/"+st.ID+"/moves", chessdto.MoveRequest{From: "d2", To: "d4"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rejected move: status %d", rec.Code)
	}
	res = decode[chessdto.MoveResponse](t, rec)
	if res.Accepted || res.State.Cursor != 1 || res.Message == "" {
		t.Fatalf("unexpected rejected response: %+v", res)
	}
}

func TestMove_BadInput(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	st := createGame(t, h)

	rec := do(t, h, http.MethodPost, "/api/games/"+st.ID+"/moves", chessdto.MoveRequest{From: "z9", To: "e4"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad square: status %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/games/"+st.ID+"/moves", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status %d", w.Code)
	}

	big := `{"from":"` + strings.Repeat("a", int(maxJSONBodyBytes)) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/api/games/"+st.ID+"/moves", strings.NewReader(big))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized body: status %d", w.Code)
	}
}

func TestGoTo(t *testing.T) {
	s, m := newTestServer(t)
	h := s.Handler()
	st := createGame(t, h)
	ctx := context.Background()
	for _, mv := range [][2]string{{"e2", "e4"}, {"e7", "e5"}} {
		if res, err := m.Move(ctx, st.ID, mv[0], mv[1]); err != nil || !res.Accepted {
			t.Fatalf("Move %v: %v", mv, err)
		}
	}

	rec := do(t, h, http.MethodPost, "/api/games/"+st.ID+"/goto", chessdto.GotoRequest{Index: 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("goto: status %d", rec.Code)
	}
	got := decode[chessdto.GameState](t, rec)
	if got.Cursor != 1 || got.Turn != "black" || got.PositionCount != 3 {
		t.Fatalf("unexpected state after goto: %+v", got)
	}

	rec = do(t, h, http.MethodPost, "/api/games/"+st.ID+"/goto", chessdto.GotoRequest{Index: 9})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("goto out of range: status %d", rec.Code)
	}
}

func TestLegal(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	st := createGame(t, h)

	rec := do(t, h, http.MethodGet, "/api/games/"+st.ID+"/legal?square=g1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("legal: status %d", rec.Code)
	}
	got := decode[chessdto.LegalResponse](t, rec)
	if got.Square != "g1" || len(got.Destinations) != 2 {
		t.Fatalf("unexpected legal response: %+v", got)
	}
	want := map[string]bool{"f3": true, "h3": true}
	for _, d := range got.Destinations {
		if !want[d] {
			t.Fatalf("unexpected destination %q", d)
		}
	}

	rec = do(t, h, http.MethodGet, "/api/games/"+st.ID+"/legal?square=e4", nil)
	if got := decode[chessdto.LegalResponse](t, rec); len(got.Destinations) != 0 {
		t.Fatalf("empty square has destinations: %v", got.Destinations)
	}

	rec = do(t, h, http.MethodGet, "/api/games/"+st.ID+"/legal?square=", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing square: status %d", rec.Code)
	}
}

func TestBoardPNG(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	st := createGame(t, h)

	rec := do(t, h, http.MethodGet, "/api/games/"+st.ID+"/board.png?select=e2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("board.png: status %d body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	if _, err := png.Decode(rec.Body); err != nil {
		t.Fatalf("png decode: %v", err)
	}

	rec = do(t, h, http.MethodGet, "/api/games/"+st.ID+"/board.png?select=x0", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad select: status %d", rec.Code)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{session.ErrGameNotFound, http.StatusNotFound},
		{session.ErrInvalidSquare, http.StatusBadRequest},
		{session.ErrInvalidIndex, http.StatusBadRequest},
		{session.ErrConflict, http.StatusConflict},
		{session.ErrGameExists, http.StatusConflict},
		{session.ErrCorruptRecord, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got, _ := classify(tt.err); got != tt.status {
			t.Fatalf("classify(%v) = %d, want %d", tt.err, got, tt.status)
		}
	}
	if _, body := classify(session.ErrConflict); !body.Retryable {
		t.Fatalf("conflict should be retryable")
	}
}

func TestWatch_PushesUpdates(t *testing.T) {
	s, m := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/games/" + v.Record.ID + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	var first chessdto.GameState
	if err := wsjson.Read(ctx, conn, &first); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if first.ID != v.Record.ID || first.Cursor != 0 {
		t.Fatalf("unexpected initial state: %+v", first)
	}

	if res, err := m.Move(ctx, v.Record.ID, "e2", "e4"); err != nil || !res.Accepted {
		t.Fatalf("Move: %v", err)
	}
	var next chessdto.GameState
	if err := wsjson.Read(ctx, conn, &next); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if next.Cursor != 1 || next.Turn != "black" {
		t.Fatalf("unexpected pushed state: %+v", next)
	}
}

func TestWatch_UnknownGame(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/api/games/nope/ws", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestWatch_ClosedOnShutdown(t *testing.T) {
	s, m := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/games/" + v.Record.ID + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	var first chessdto.GameState
	if err := wsjson.Read(ctx, conn, &first); err != nil {
		t.Fatalf("read initial: %v", err)
	}

	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	var next chessdto.GameState
	err = wsjson.Read(ctx, conn, &next)
	if err == nil {
		t.Fatalf("stream still open after Close: %+v", next)
	}
	if got := websocket.CloseStatus(err); got != websocket.StatusGoingAway {
		t.Fatalf("close status = %v (%v), want going away", got, err)
	}
}
