package audio

import (
	"fmt"

	"github.com/robmorgan/riffduel/kit"
	"github.com/robmorgan/riffduel/logger"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// PadListener turns note-on messages from a MIDI controller into kit pad hits.
type PadListener struct {
	kit   kit.Kit
	onPad func(kit.Pad)
}

// NewPadListener creates a listener for the pads of k.
func NewPadListener(k kit.Kit, onPad func(kit.Pad)) *PadListener {
	return &PadListener{kit: k, onPad: onPad}
}

// HandleMessage reports whether msg hit a pad of the kit. The channel is ignored so any
// controller layout works.
func (l *PadListener) HandleMessage(msg midi.Message) bool {
	var ch, key, vel uint8
	if !msg.GetNoteStart(&ch, &key, &vel) {
		return false
	}

	pad, ok := l.kit.ByNote(key)
	if !ok {
		logger := logger.GetProjectLogger()
		logger.Debugf("Ignoring MIDI note %d on channel %d", key, ch)
		return false
	}

	l.onPad(pad)
	return true
}

// Listen opens an input port by name, or the first port when name is empty, and handles its
// messages until stop is called.
func (l *PadListener) Listen(name string) (stop func(), err error) {
	var in drivers.In
	if name == "" {
		in, err = midi.InPort(0)
	} else {
		in, err = midi.FindInPort(name)
	}
	if err != nil {
		return nil, fmt.Errorf("midi input %q not found: %w", name, err)
	}

	stop, err = midi.ListenTo(in, func(msg midi.Message, _ int32) {
		l.HandleMessage(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("listen %q: %w", in.String(), err)
	}

	logger := logger.GetProjectLogger()
	logger.WithField("port", in.String()).Info("MIDI pads connected")

	return stop, nil
}
