package duel

// Phase is the stage of a duel.
type Phase int

const (
	Idle Phase = iota
	CountIn
	OpponentTurn
	PlayerTurn
	Finished
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case CountIn:
		return "count-in"
	case OpponentTurn:
		return "opponent"
	case PlayerTurn:
		return "player"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Active reports whether a game is in progress.
func (p Phase) Active() bool {
	return p == CountIn || p == OpponentTurn || p == PlayerTurn
}

// State is a snapshot of a duel.
type State struct {
	Phase       Phase
	Bar         int
	PlayerScore int

	// Baseline is the recognizer total when the current player turn started.
	Baseline int
}
