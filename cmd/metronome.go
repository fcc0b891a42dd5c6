package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/robmorgan/riffduel/logger"
	"github.com/robmorgan/riffduel/phrase"
	"github.com/robmorgan/riffduel/rhythm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var metronomeTempo int

func init() {
	metronomeCmd.Flags().IntVarP(&metronomeTempo, "tempo", "t", 0, "tempo in BPM (overrides the config)")
	rootCmd.AddCommand(metronomeCmd)
}

var metronomeCmd = &cobra.Command{
	Use:   "metronome",
	Short: "Run the metronome and log the timing of MIDI pad hits",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if metronomeTempo != 0 {
			cfg.Tempo = metronomeTempo
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		e, _, err := newEngine(cfg)
		if err != nil {
			return err
		}

		logger := logger.GetProjectLogger()

		e.OnTick(func(tick rhythm.BeatTick) {
			logger.WithField("downbeat", tick.Downbeat).Debugf("Beat %d", tick.Beat)
		})
		e.OnCapture(func(n phrase.CapturedNote) {
			logger.WithFields(logrus.Fields{
				"beat":      n.Beat,
				"sub":       n.Subdivision,
				"offset_ms": n.OffsetMs,
			}).Infof("%s: %s", n.Label, n.Tier)
		})
		e.OnRecognized(func(r phrase.RecognitionResult) {
			logger.Infof("Recognized %s (%.0f%%) +%d", r.Template.Name, r.Accuracy, r.Points)
		})

		ctx, cancel := context.WithCancel(cmd.Context())
		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Run(ctx)
		}()

		stopPads := listenForPads(cfg, e)
		e.ToggleMetronome()
		logger.Infof("Metronome running at %d BPM, press ctrl+c to stop", cfg.Tempo)

		// handle CTRL+C interrupt
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		<-quit

		logger.Info("Shutting down metronome")
		stopPads()
		e.ToggleMetronome()
		cancel()
		wg.Wait()
		return nil
	},
}
