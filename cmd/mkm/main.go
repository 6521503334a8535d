// Package main is the entry point for the mkm CLI.
package main

import (
	"os"

	"github.com/Simplici0/mkm/cmd/mkm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
