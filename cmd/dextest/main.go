// Package main is the entry point for the dextest CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/dextest/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
