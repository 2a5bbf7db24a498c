package main

import (
	"os"

	"github.com/holerite-dev/holerite/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
