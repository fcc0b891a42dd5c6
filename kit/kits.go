package kit

// General MIDI percussion key map (channel 10).
var gmNotes = map[string]uint8{
	SoundKick:        36,
	SoundSnare:       38,
	SoundClap:        39,
	SoundHiHat:       42,
	SoundTom:         45,
	SoundOpenHat:     46,
	SoundCrash:       49,
	SoundRide:        51,
	SoundClick:       33,
	SoundClickAccent: 34,
}

var kits = initializeKits()

func initializeKits() map[string]Kit {
	out := map[string]Kit{
		"gm-drums": {
			Name: "General MIDI Drums",
			Pads: []Pad{
				{SoundID: SoundKick, Label: "Kick", Key: "f"},
				{SoundID: SoundSnare, Label: "Snare", Key: "j"},
				{SoundID: SoundHiHat, Label: "Hi-Hat", Key: "k"},
				{SoundID: SoundOpenHat, Label: "Open Hat", Key: "l"},
				{SoundID: SoundTom, Label: "Tom", Key: "d"},
				{SoundID: SoundClap, Label: "Clap", Key: "s"},
				{SoundID: SoundCrash, Label: "Crash", Key: "a"},
				{SoundID: SoundRide, Label: "Ride", Key: ";"},
			},
		},
		// smaller layout for finger drumming on the home row
		"finger-drums": {
			Name: "Finger Drums",
			Pads: []Pad{
				{SoundID: SoundKick, Label: "Kick", Key: "f"},
				{SoundID: SoundSnare, Label: "Snare", Key: "j"},
				{SoundID: SoundHiHat, Label: "Hat", Key: "k"},
				{SoundID: SoundClap, Label: "Clap", Key: "d"},
			},
		},
	}

	for name, k := range out {
		for i := range k.Pads {
			k.Pads[i].Note = gmNotes[k.Pads[i].SoundID]
		}
		out[name] = k
	}

	return out
}
