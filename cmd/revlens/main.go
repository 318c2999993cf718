package main

import (
	"os"

	"github.com/revlens-dev/revlens/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
