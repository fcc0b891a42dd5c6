package kit

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	SoundKick    = "kick"
	SoundSnare   = "snare"
	SoundHiHat   = "hihat"
	SoundOpenHat = "openhat"
	SoundTom     = "tom"
	SoundClap    = "clap"
	SoundCrash   = "crash"
	SoundRide    = "ride"

	// Metronome clicks. The accent is played on the downbeat.
	SoundClick       = "click"
	SoundClickAccent = "click-accent"
)

// DefaultKit is used when no kit is configured.
const DefaultKit = "gm-drums"

// Pad binds a playable sound to a keyboard key and a General MIDI drum note.
type Pad struct {
	SoundID string
	Label   string
	Key     string
	Note    uint8
}

// Kit holds the pads of a drum kit.
type Kit struct {
	Name string
	Pads []Pad
}

// ByKey returns the pad triggered by a keyboard key.
func (k Kit) ByKey(key string) (Pad, bool) {
	for _, p := range k.Pads {
		if p.Key == key {
			return p, true
		}
	}
	return Pad{}, false
}

// ByNote returns the pad triggered by a MIDI note.
func (k Kit) ByNote(note uint8) (Pad, bool) {
	for _, p := range k.Pads {
		if p.Note == note {
			return p, true
		}
	}
	return Pad{}, false
}

// BySound returns the pad playing a sound id.
func (k Kit) BySound(soundID string) (Pad, bool) {
	for _, p := range k.Pads {
		if p.SoundID == soundID {
			return p, true
		}
	}
	return Pad{}, false
}

// Label returns the display label of a sound, falling back to the sound id.
func (k Kit) Label(soundID string) string {
	if p, ok := k.BySound(soundID); ok {
		return p.Label
	}
	return soundID
}

// Get returns a kit by name, ignoring case.
func Get(name string) (Kit, bool) {
	k, ok := kits[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Names returns the known kit names in sorted order.
func Names() []string {
	out := maps.Keys(kits)
	slices.Sort(out)
	return out
}

// GMNote returns the General MIDI percussion note for a sound id, including the metronome
// clicks that have no pad.
func GMNote(soundID string) (uint8, bool) {
	n, ok := gmNotes[soundID]
	return n, ok
}
