package main

import (
	"os"

	"WhaleSentinel/cmd/sentinel/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
