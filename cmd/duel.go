package cmd

import (
	"context"
	"sync"

	"github.com/robmorgan/riffduel/logger"
	"github.com/robmorgan/riffduel/store"
	"github.com/robmorgan/riffduel/tui"
	"github.com/spf13/cobra"
)

// defaultLogFile keeps log output off the terminal while the TUI is running.
const defaultLogFile = "riffduel.log"

var (
	duelTempo  int
	duelBars   int
	saveOnExit bool
)

func init() {
	duelCmd.Flags().IntVarP(&duelTempo, "tempo", "t", 0, "tempo in BPM (overrides the config)")
	duelCmd.Flags().IntVarP(&duelBars, "bars", "b", 0, "bars per duel (overrides the config)")
	duelCmd.Flags().BoolVar(&saveOnExit, "save", false, "write the lick library back to its file on exit")
	rootCmd.AddCommand(duelCmd)
}

var duelCmd = &cobra.Command{
	Use:     "duel",
	Aliases: []string{"play"},
	Short:   "Open the interactive trainer",
	RunE: func(cmd *cobra.Command, args []string) error {
		if logFile == "" {
			logFile = defaultLogFile
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if duelTempo != 0 {
			cfg.Tempo = duelTempo
		}
		if duelBars != 0 {
			cfg.TotalBars = duelBars
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		e, licks, err := newEngine(cfg)
		if err != nil {
			return err
		}

		logger := logger.GetProjectLogger()

		ctx, cancel := context.WithCancel(cmd.Context())
		wg := sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Run(ctx)
		}()

		stopPads := listenForPads(cfg, e)

		err = tui.Run(e)

		stopPads()
		e.StopGame()
		cancel()
		wg.Wait()

		if saveOnExit {
			all, listErr := licks.List()
			if listErr == nil {
				listErr = store.WriteLibrary(cfg.LibraryPath, all)
			}
			if listErr != nil {
				logger.Errorf("Could not save the lick library: %v", listErr)
			} else {
				logger.Infof("Saved %d licks to %s", len(all), cfg.LibraryPath)
			}
		}

		return err
	},
}
