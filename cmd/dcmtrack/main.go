package main

import (
	"os"

	"github.com/dcmtrack/dcmtrack/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
