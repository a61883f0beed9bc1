package chessdto

// MoveEntry is one recorded move. Moves past the cursor are still listed
// until the next move branches from the current position.
type MoveEntry struct {
	Number   int    `json:"number"`
	Color    string `json:"color"`
	Piece    string `json:"piece"`
	From     string `json:"from"`
	To       string `json:"to"`
	Captured string `json:"captured,omitempty"`
	SAN      string `json:"san"`
	Display  string `json:"display"`
}

type MoveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type MoveResponse struct {
	Accepted bool       `json:"accepted"`
	Message  string     `json:"message,omitempty"`
	State    *GameState `json:"state"`
}
