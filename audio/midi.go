package audio

import (
	"fmt"
	"sync"

	"github.com/robmorgan/riffduel/kit"
	"github.com/robmorgan/riffduel/logger"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

const (
	// DrumChannel is General MIDI channel 10.
	DrumChannel = 9

	defaultVelocity = 100
	accentVelocity  = 127
)

// MIDIPlayer plays sounds as General MIDI percussion notes.
type MIDIPlayer struct {
	mu   sync.Mutex
	send func(midi.Message) error
}

// NewMIDIPlayer creates a player writing through send.
func NewMIDIPlayer(send func(midi.Message) error) *MIDIPlayer {
	return &MIDIPlayer{send: send}
}

// OpenMIDIPlayer opens an output port by name, or the first port when name is empty.
func OpenMIDIPlayer(name string) (*MIDIPlayer, error) {
	var out drivers.Out
	var err error
	if name == "" {
		out, err = midi.OutPort(0)
	} else {
		out, err = midi.FindOutPort(name)
	}
	if err != nil {
		return nil, fmt.Errorf("midi output %q not found: %w", name, err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open midi output %q: %w", out.String(), err)
	}

	logger := logger.GetProjectLogger()
	logger.WithField("port", out.String()).Info("MIDI output connected")

	return NewMIDIPlayer(send), nil
}

// Play sends a note on and note off for the sound. Drum voices ignore the note length.
func (p *MIDIPlayer) Play(soundID string) {
	logger := logger.GetProjectLogger()

	note, ok := kit.GMNote(soundID)
	if !ok {
		logger.Debugf("No MIDI note for sound %q", soundID)
		return
	}

	velocity := uint8(defaultVelocity)
	if soundID == kit.SoundClickAccent {
		velocity = accentVelocity
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, msg := range []midi.Message{
		midi.NoteOn(DrumChannel, note, velocity),
		midi.NoteOff(DrumChannel, note),
	} {
		if err := p.send(msg); err != nil {
			logger.WithFields(logrus.Fields{
				"sound": soundID,
				"note":  note,
			}).Warnf("Failed to send MIDI message: %v", err)
			return
		}
	}
}

// Devices lists the names of the MIDI input and output ports.
func Devices() (ins []string, outs []string) {
	for _, in := range midi.GetInPorts() {
		ins = append(ins, in.String())
	}
	for _, out := range midi.GetOutPorts() {
		outs = append(outs, out.String())
	}
	return ins, outs
}
