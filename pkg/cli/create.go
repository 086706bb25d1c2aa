package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	createFile string
	createPort int
	createTLS  bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "start a mock server instance from a pact file",
	RunE:  runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createFile, "file", "", "path to the pact JSON file (required)")
	createCmd.Flags().IntVar(&createPort, "port", 0, "bind the instance to this exact port (0: choose automatically)")
	createCmd.Flags().BoolVar(&createTLS, "tls", false, "serve over TLS with a generated self-signed certificate")
	createCmd.MarkFlagRequired("file")
}

func runCreate(cmd *cobra.Command, args []string) error {
	if createFile == "" {
		return fmt.Errorf("%w: --file is required", ErrUsage)
	}

	data, err := os.ReadFile(createFile)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrIO, createFile, err)
	}

	resp, err := NewClient(controlURL).Create(data, createPort, createTLS)
	if err != nil {
		return err
	}

	printResult(resp, func() {
		fmt.Printf("created mock server %s on port %d\n", resp.MockServerID, resp.Port)
	})
	return nil
}
