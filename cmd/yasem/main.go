// Package main is the entry point for the yasem application.
package main

import (
	"os"

	"github.com/jmylchreest/yasem/cmd/yasem/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
