// Package main is the entry point for the winpilot command-line tool.
package main

import (
	"os"

	"winpilot/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
