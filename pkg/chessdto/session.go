package chessdto

import "time"

type CapturedPieces struct {
	White []string `json:"white"` // taken by white
	Black []string `json:"black"` // taken by black
}

// MaterialScore sums standard piece values each side has captured.
type MaterialScore struct {
	White int `json:"white"`
	Black int `json:"black"`
}

func (m MaterialScore) Diff() int { return m.White - m.Black }

// GameState is the presentation view of one game at its current position.
type GameState struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Turn          string         `json:"turn"`
	Check         bool           `json:"check"`
	Checkmate     bool           `json:"checkmate"`
	Winner        string         `json:"winner,omitempty"`
	FEN           string         `json:"fen"`
	Board         []string       `json:"board"` // rank 8 first, "." for empty
	Moves         []MoveEntry    `json:"moves"`
	Cursor        int            `json:"cursor"`
	PositionCount int            `json:"position_count"`
	Captured      CapturedPieces `json:"captured"`
	Material      MaterialScore  `json:"material"`
	TurnText      string         `json:"turn_text"`
	StatusText    string         `json:"status_text,omitempty"`
	PositionText  string         `json:"position_text,omitempty"`
	History       []string       `json:"history"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
