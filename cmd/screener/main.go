package main

import (
	"os"

	"SwingScreener/cmd/screener/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
