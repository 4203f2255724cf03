package main

import (
	"os"

	"github.com/GrigorijsPerec/hell-bot/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
