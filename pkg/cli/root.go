package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// controlURL is the persistent flag every subcommand but start uses to
	// reach an already-running control service.
	controlURL string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "pactmock",
	Short:         "in-process HTTP mock server that verifies requests against a pact contract",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&controlURL, "control-url", "http://127.0.0.1:8080", "base URL of the running control service")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output command results as JSON")
}

// Execute parses args and runs the matching subcommand, returning the
// process exit code: 0 success, 1 usage, 2 I/O failure, 3 mismatch on
// verify.
func Execute(args []string) int {
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, err)
	return exitCodeFor(err)
}

// exitCodeFor classifies err against the CLI's exit-code contract.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, ErrMismatch):
		return 3
	case errors.Is(err, ErrIO):
		return 2
	default:
		return 1
	}
}
