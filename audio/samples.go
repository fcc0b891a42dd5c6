package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/gruntwork-io/go-commons/files"
	"github.com/robmorgan/riffduel/kit"
	"github.com/robmorgan/riffduel/logger"
)

// DefaultFormat is the speaker format samples are converted to.
var DefaultFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

// SamplePlayer plays WAV samples held in memory through the speaker.
type SamplePlayer struct {
	mu      sync.Mutex
	format  beep.Format
	samples map[string]*beep.Buffer

	play func(beep.Streamer)
}

// NewSamplePlayer creates a player without any samples. Call Init before playing through the
// speaker.
func NewSamplePlayer(format beep.Format) *SamplePlayer {
	return &SamplePlayer{
		format:  format,
		samples: make(map[string]*beep.Buffer),
		play:    func(beep.Streamer) {},
	}
}

// LoadSamples reads <sound>.wav from dir for every pad of the kit and both metronome clicks.
// Sounds without a file stay silent.
func LoadSamples(dir string, k kit.Kit, format beep.Format) (*SamplePlayer, error) {
	logger := logger.GetProjectLogger()

	p := NewSamplePlayer(format)

	sounds := []string{kit.SoundClick, kit.SoundClickAccent}
	for _, pad := range k.Pads {
		sounds = append(sounds, pad.SoundID)
	}

	for _, sound := range sounds {
		path := filepath.Join(dir, sound+".wav")
		if !files.FileExists(path) {
			logger.Debugf("No sample for %q at %s", sound, path)
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, errors.WithStackTrace(err)
		}
		err = p.Load(sound, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if len(p.samples) == 0 {
		return nil, fmt.Errorf("no samples found in %s", dir)
	}
	logger.Infof("Loaded %d samples from %s", len(p.samples), dir)

	return p, nil
}

// Load decodes a WAV stream into memory, resampling it to the player's format.
func (p *SamplePlayer) Load(soundID string, r io.Reader) error {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return err
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != p.format.SampleRate {
		s = beep.Resample(4, format.SampleRate, p.format.SampleRate, streamer)
	}

	buf := beep.NewBuffer(p.format)
	buf.Append(s)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples[soundID] = buf
	return nil
}

// Init opens the speaker.
func (p *SamplePlayer) Init() error {
	if err := speaker.Init(p.format.SampleRate, p.format.SampleRate.N(time.Second/50)); err != nil {
		return errors.WithStackTrace(err)
	}
	p.play = func(s beep.Streamer) { speaker.Play(s) }
	return nil
}

// Has reports whether a sample is loaded for the sound.
func (p *SamplePlayer) Has(soundID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.samples[soundID]
	return ok
}

// Play starts the sample of the sound. Overlapping hits are mixed by the speaker.
func (p *SamplePlayer) Play(soundID string) {
	p.mu.Lock()
	buf, ok := p.samples[soundID]
	p.mu.Unlock()
	if !ok {
		return
	}
	p.play(buf.Streamer(0, buf.Len()))
}
