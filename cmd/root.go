package cmd

import (
	"github.com/robmorgan/riffduel/config"
	"github.com/robmorgan/riffduel/logger"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
)

var (
	configFile string
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "riffduel",
	Short: "Rhythm trainer and call-and-response drum duel",
	Long: `riffduel keeps time with a metronome, scores your hits against the beat and
recognizes the licks you have recorded. In a duel the opponent plays a lick from
your library every other bar and you answer it in the next.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigFile, "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides the config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file (overrides the config)")
}

// Execute runs the command line.
func Execute() {
	defer midi.CloseDriver()
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig reads the config and configures the project logger from it.
func loadConfig() (*config.RiffConfig, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, err
	}

	return cfg, nil
}
