// Package main is the entry point for the kvakk-git-tools CLI.
package main

import (
	"os"

	"github.com/statisticsnorway/kvakk-git-tools/cmd/kvakk-git-tools/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
