package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/park285/hotseat-chess/internal/rules"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameExists    = errors.New("game already exists")
	ErrInvalidSquare = errors.New("invalid square")
	ErrInvalidIndex  = errors.New("position index out of range")
	ErrConflict      = errors.New("concurrent update, retry")
	ErrCorruptRecord = errors.New("stored move list does not replay")
)

// Status is the lifecycle state of a stored game at its current position.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
)

// MoveRef is one move in coordinate form, as persisted.
type MoveRef struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (m MoveRef) UCI() string { return m.From + m.To }

// Record is the persisted state of one game. The live board is never stored:
// it is rebuilt by replaying Moves and then rewinding to Cursor. Version grows
// by one with every committed update.
type Record struct {
	ID        string    `json:"id"`
	Moves     []MoveRef `json:"moves"`
	Cursor    int       `json:"cursor"`
	Status    Status    `json:"status"`
	Winner    string    `json:"winner,omitempty"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Record) clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Moves = append([]MoveRef(nil), r.Moves...)
	return &c
}

// Replay rebuilds the rules game for a record.
func Replay(r *Record) (*rules.Game, error) {
	g := rules.NewGame()
	for i, mv := range r.Moves {
		from, ok1 := rules.ParseSquare(mv.From)
		to, ok2 := rules.ParseSquare(mv.To)
		if !ok1 || !ok2 || !g.TryMove(from, to) {
			return nil, fmt.Errorf("%w: move %d %s", ErrCorruptRecord, i+1, mv.UCI())
		}
	}
	if !g.GoToMove(r.Cursor) {
		return nil, fmt.Errorf("%w: cursor %d of %d", ErrCorruptRecord, r.Cursor, len(r.Moves))
	}
	return g, nil
}

// syncFromGame copies the game's history and derived status into r.
func syncFromGame(r *Record, g *rules.Game) {
	moves := g.Moves()
	r.Moves = make([]MoveRef, len(moves))
	for i, m := range moves {
		r.Moves[i] = MoveRef{From: m.From.String(), To: m.To.String()}
	}
	r.Cursor = g.Cursor()
	if g.IsCheckmate() {
		r.Status = StatusFinished
		r.Winner = g.SideToMove().Opponent().String()
	} else {
		r.Status = StatusActive
		r.Winner = ""
	}
}

// View is a rebuilt game ready for presentation. Game is owned by the caller
// that requested the view and must not be shared between goroutines.
type View struct {
	Record *Record
	Game   *rules.Game
}

// MoveResult reports whether a move was accepted; View is the state after the
// attempt either way.
type MoveResult struct {
	Accepted bool
	View     *View
}
