package cmd

import (
	"fmt"
	"strings"

	"github.com/robmorgan/riffduel/phrase"
	"github.com/robmorgan/riffduel/store"
	"github.com/spf13/cobra"
)

var exportPath string

func init() {
	licksCmd.Flags().StringVarP(&exportPath, "export", "o", "", "write the validated library to a file")
	rootCmd.AddCommand(licksCmd)
}

var licksCmd = &cobra.Command{
	Use:   "licks",
	Short: "List the licks in the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		licks := store.NewMemory()
		if _, err := store.LoadLibrary(cfg.LibraryPath, licks); err != nil {
			return err
		}
		all, err := licks.List()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(all) == 0 {
			fmt.Fprintf(out, "No licks in %s\n", cfg.LibraryPath)
		}
		for _, t := range all {
			fmt.Fprintf(out, "%-24s %-8s %3d bpm  difficulty %3d  %s\n", t.Name, t.Mode, t.BPM, t.DifficultyOrDefault(), describe(t.Notes))
		}

		if exportPath != "" {
			return store.WriteLibrary(exportPath, all)
		}
		return nil
	},
}

// describe renders notes as sound@beat.sub, e.g. kick@1 snare@1.50.
func describe(notes []phrase.Note) string {
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		if n.Subdivision == 0 {
			parts = append(parts, fmt.Sprintf("%s@%d", n.SoundID, n.Beat))
		} else {
			parts = append(parts, fmt.Sprintf("%s@%d%s", n.SoundID, n.Beat, strings.TrimPrefix(fmt.Sprintf("%.2f", n.Subdivision), "0")))
		}
	}
	return strings.Join(parts, " ")
}
