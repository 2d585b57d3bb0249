package main

import (
	"os"

	"backlot/cmd/backlot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
