package core

// Request types

type CreateGameRequest struct {
	AI       AIConfig `json:"ai"`
	Position string   `json:"position,omitempty" validate:"omitempty,max=52"`
}

type ConfigurePlayersRequest struct {
	AI AIConfig `json:"ai"`
}

// AIConfig selects whether the computer plays and with which side and strength
type AIConfig struct {
	Enabled    bool   `json:"enabled"`
	Side       string `json:"side,omitempty" validate:"omitempty,oneof=red white"`
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=4,max=5"` // "cccc" for computer move, "c3d4" / "c3-d4" / "c3xe5" otherwise
}

type ClickRequest struct {
	X *int `json:"x" validate:"required,min=0,max=7"`
	Y *int `json:"y" validate:"required,min=0,max=7"`
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=500"`
}

// Response types

type GameResponse struct {
	GameID     string          `json:"gameId"`
	Position   string          `json:"position"`
	Turn       string          `json:"turn"`  // "red" or "white"
	State      string          `json:"state"` // "ongoing", "red wins", ...
	Moves      []string        `json:"moves"`
	Score      SideCounts      `json:"score"`
	PieceCount SideCounts      `json:"pieceCount"`
	Pieces     []PieceInfo     `json:"pieces"`
	AI         AIConfig        `json:"ai"`
	Selected   *SquareInfo     `json:"selected,omitempty"`
	Highlights []HighlightInfo `json:"highlights,omitempty"`
	LastMove   *MoveInfo       `json:"lastMove,omitempty"`
}

type SideCounts struct {
	Red   int `json:"red"`
	White int `json:"white"`
}

type PieceInfo struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Side string `json:"side"`
	King bool   `json:"king"`
}

type SquareInfo struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type HighlightInfo struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Capture bool `json:"capture"`
}

type MoveInfo struct {
	Move     string `json:"move"`
	Side     string `json:"side"`
	Computer bool   `json:"computer,omitempty"`
	Captured bool   `json:"captured,omitempty"`
	Promoted bool   `json:"promoted,omitempty"`
	Points   int    `json:"points,omitempty"` // 1 for a capture, 2 for a king capture
}

type BoardResponse struct {
	Position string `json:"position"`
	Board    string `json:"board"` // ASCII representation
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
