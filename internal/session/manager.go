package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/hotseat-chess/internal/notation"
	"github.com/park285/hotseat-chess/internal/obslog"
	"github.com/park285/hotseat-chess/internal/rules"
)

// errRejected aborts a store update for a move the rules refused.
var errRejected = errors.New("move rejected")

// Manager owns many independent games keyed by id. Every call rebuilds its own
// rules.Game from the stored record, so games are never shared across
// goroutines.
type Manager struct {
	store   Store
	archive Archiver
	hub     *Hub
	now     func() time.Time
}

type Option func(*Manager)

// WithArchive archives games that end in checkmate.
func WithArchive(a Archiver) Option { return func(m *Manager) { m.archive = a } }

// WithClock overrides time.Now for record timestamps.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{store: store, hub: NewHub(), now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Create starts a new game from the standard setup.
func (m *Manager) Create(ctx context.Context) (*View, error) {
	now := m.now()
	rec := &Record{
		ID:        uuid.NewString(),
		Moves:     []MoveRef{},
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	obslog.L().Info("game_created", zap.String("game_id", rec.ID))
	return &View{Record: rec, Game: rules.NewGame()}, nil
}

// Get loads and rebuilds a game.
func (m *Manager) Get(ctx context.Context, id string) (*View, error) {
	rec, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	g, err := Replay(rec)
	if err != nil {
		return nil, err
	}
	return &View{Record: rec, Game: g}, nil
}

// Move attempts from -> to for the side to move. An illegal move is not an
// error: the result is not accepted and the stored game is unchanged.
func (m *Manager) Move(ctx context.Context, id, from, to string) (*MoveResult, error) {
	fromSq, ok1 := rules.ParseSquare(from)
	toSq, ok2 := rules.ParseSquare(to)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: %q -> %q", ErrInvalidSquare, from, to)
	}

	var game *rules.Game
	rec, err := m.store.Update(ctx, id, func(r *Record) error {
		g, err := Replay(r)
		if err != nil {
			return err
		}
		if !g.TryMove(fromSq, toSq) {
			return errRejected
		}
		syncFromGame(r, g)
		r.UpdatedAt = m.now()
		game = g
		return nil
	})
	if errors.Is(err, errRejected) {
		obslog.L().Debug("move_rejected", zap.String("game_id", id), zap.String("from", from), zap.String("to", to))
		view, gerr := m.Get(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		return &MoveResult{Accepted: false, View: view}, nil
	}
	if err != nil {
		return nil, err
	}

	obslog.L().Info("move_played",
		zap.String("game_id", id),
		zap.String("from", fromSq.String()),
		zap.String("to", toSq.String()),
		zap.Int("cursor", rec.Cursor),
		zap.String("status", string(rec.Status)),
	)
	m.hub.Publish(rec)
	if rec.Status == StatusFinished {
		m.archiveResult(ctx, rec, game)
	}
	return &MoveResult{Accepted: true, View: &View{Record: rec, Game: game}}, nil
}

// GoTo rewinds or advances to a stored position. Later moves are kept until
// the next accepted move branches from here.
func (m *Manager) GoTo(ctx context.Context, id string, index int) (*View, error) {
	var game *rules.Game
	rec, err := m.store.Update(ctx, id, func(r *Record) error {
		g, err := Replay(r)
		if err != nil {
			return err
		}
		if !g.GoToMove(index) {
			return fmt.Errorf("%w: %d not in [0,%d]", ErrInvalidIndex, index, g.PositionCount()-1)
		}
		syncFromGame(r, g)
		r.UpdatedAt = m.now()
		game = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	obslog.L().Info("position_selected", zap.String("game_id", id), zap.Int("cursor", rec.Cursor))
	m.hub.Publish(rec)
	return &View{Record: rec, Game: game}, nil
}

// Legal lists the legal destinations of the piece on square.
func (m *Manager) Legal(ctx context.Context, id, square string) ([]rules.Square, error) {
	sq, ok := rules.ParseSquare(square)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSquare, square)
	}
	v, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return v.Game.LegalDestinations(sq), nil
}

// Subscribe streams records of game id after every accepted mutation.
func (m *Manager) Subscribe(ctx context.Context, id string) (<-chan *Record, func(), error) {
	if _, err := m.store.Load(ctx, id); err != nil {
		return nil, nil, err
	}
	ch, cancel := m.hub.Subscribe(id)
	return ch, cancel, nil
}

func (m *Manager) Close() error { return m.store.Close() }

func (m *Manager) archiveResult(ctx context.Context, rec *Record, g *rules.Game) {
	if m.archive == nil || g == nil {
		return
	}
	winner := g.SideToMove().Opponent()
	san := notation.SAN(g.Moves()[:g.Cursor()])
	token := notation.Result(true, winner)
	pgn := notation.PGN(notation.Header{
		Event:       "Hot-seat game",
		Site:        rec.ID,
		Date:        rec.UpdatedAt,
		Termination: rules.Checkmate.String(),
	}, san, token)
	res := &Result{Record: rec, MovesSAN: san, PGN: pgn, Result: token, Method: rules.Checkmate.String()}
	if err := m.archive.SaveResult(ctx, res); err != nil {
		obslog.L().Error("game_archive_error", zap.String("game_id", rec.ID), zap.Error(err))
		return
	}
	obslog.L().Info("game_archived", zap.String("game_id", rec.ID), zap.String("result", token))
}
