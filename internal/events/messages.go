package events

// Event types.
const (
	TypeDeckSubmitted = "deck:submitted"
	TypeHandsDrawn    = "hands:drawn"
	TypeDeckCleared   = "deck:cleared"
	TypeLookupFailed  = "lookup:failed"
)

// DeckSubmittedEvent is the payload for deck:submitted.
// Sent once a new decklist has been parsed, resolved and expanded.
type DeckSubmittedEvent struct {
	SessionID   string `json:"sessionId"`
	Lines       int    `json:"lines"`
	Dropped     int    `json:"dropped"`
	Cards       int    `json:"cards"`
	UniqueCards int    `json:"uniqueCards"`
}

// HandsDrawnEvent is the payload for hands:drawn.
type HandsDrawnEvent struct {
	SessionID  string   `json:"sessionId"`
	Drawn      int      `json:"drawn"`
	TotalHands int      `json:"totalHands"`
	Current    []string `json:"current"` // labels of the newest hand
}

// DeckClearedEvent is the payload for deck:cleared.
type DeckClearedEvent struct {
	SessionID string `json:"sessionId"`
}

// LookupFailedEvent is the payload for lookup:failed.
// The card was replaced with a placeholder.
type LookupFailedEvent struct {
	Name    string `json:"name"`
	SetCode string `json:"set"`
	Error   string `json:"error"`
}
