package cmd

import (
	"fmt"

	"github.com/robmorgan/riffduel/audio"
	"github.com/robmorgan/riffduel/kit"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List MIDI ports and drum kits",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		ins, outs := audio.Devices()

		fmt.Fprintln(out, "MIDI inputs:")
		for _, name := range ins {
			fmt.Fprintf(out, "  %s\n", name)
		}
		fmt.Fprintln(out, "MIDI outputs:")
		for _, name := range outs {
			fmt.Fprintf(out, "  %s\n", name)
		}

		fmt.Fprintln(out, "Kits:")
		for _, name := range kit.Names() {
			k, _ := kit.Get(name)
			fmt.Fprintf(out, "  %-14s %s\n", name, k.Name)
		}
	},
}
