package main

import (
	"os"

	"github.com/debemdeboas/postcraft/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
