// Package cmd implements the command-line interface for winpilot.
package cmd

import "github.com/spf13/cobra"

// Flags holds the parsed command-line flags
type Flags struct {
	Verbose    bool
	ShowLogs   bool
	ConfigFile string
	Screenshot bool
	NoPosition bool
}

// NewFlagsFromCommand creates a Flags from parsed command flags
func NewFlagsFromCommand(cmd *cobra.Command) *Flags {
	return &Flags{
		Verbose:    getBoolFlag(cmd, "verbose"),
		ShowLogs:   getBoolFlag(cmd, "logs"),
		ConfigFile: getStringFlag(cmd, "config"),
		Screenshot: getBoolFlag(cmd, "screenshot"),
		NoPosition: getBoolFlag(cmd, "no-position"),
	}
}

// getBoolFlag retrieves a boolean flag, checking both local and persistent flags
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		val, _ = cmd.PersistentFlags().GetBool(name)
	}

	return val
}

// getStringFlag retrieves a string flag, checking both local and persistent flags
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		val, _ = cmd.PersistentFlags().GetString(name)
	}

	return val
}
