// Package main is the entry point for the hookscan CLI binary.
package main

import (
	"os"

	"github.com/irahardianto/hookscan/cmd/hookscan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
