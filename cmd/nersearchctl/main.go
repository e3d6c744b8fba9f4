package main

import (
	"os"

	"github.com/kailas-cloud/nersearch/cmd/nersearchctl/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
