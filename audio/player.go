package audio

// Player plays a sound by id. Play returns immediately and never waits for the sound to finish.
type Player interface {
	Play(soundID string)
}

// Nop is a Player that stays silent.
type Nop struct{}

// Play does nothing.
func (Nop) Play(string) {}
