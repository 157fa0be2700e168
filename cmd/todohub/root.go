package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for the CLI
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitServerNotRunning = 2
)

var rootCmd = &cobra.Command{
	Use:   "todohub",
	Short: "Todohub shared todo service",
	Long:  `A shared todo service with delegated access, subtasks and an audit trail.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitGeneralError)
	}
}

// handleError prints the error and exits with a general error code.
func handleError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitGeneralError)
}
