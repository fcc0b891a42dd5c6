package main

import (
	"github.com/robmorgan/riffduel/cmd"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func main() {
	cmd.Execute()
}
