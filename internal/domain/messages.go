package domain

// ClientMessage is every frame a browser can send over the socket.
type ClientMessage struct {
	Type      string `json:"type"`
	Column    int    `json:"column"`
	KeepTally *bool  `json:"keepTally,omitempty"`
}

type ServerMessage struct {
	Type        string     `json:"type"`
	Message     string     `json:"message,omitempty"`
	SessionID   string     `json:"sessionId,omitempty"`
	Move        *Move      `json:"move,omitempty"`
	NextTurn    PlayerID   `json:"nextTurn,omitempty"`
	Status      GameStatus `json:"status,omitempty"`
	Winner      PlayerID   `json:"winner,omitempty"`
	WinningLine *Line      `json:"winningLine,omitempty"`
	Tally       *Tally     `json:"tally,omitempty"`
	State       any        `json:"state,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
