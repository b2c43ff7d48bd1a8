package main

import (
	"os"

	"github.com/iwvelando/amortize/cmd/amortize/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
