package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verifyMockServerID   string
	verifyMockServerPort int
	verifyWrite          bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "check whether a mock server instance's expected interactions were all exercised",
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyMockServerID, "mock-server-id", "", "id of the instance to verify")
	verifyCmd.Flags().IntVar(&verifyMockServerPort, "mock-server-port", 0, "port of the instance to verify")
	verifyCmd.Flags().BoolVar(&verifyWrite, "write", false, "also write the consumed pact file on success")
}

func runVerify(cmd *cobra.Command, args []string) error {
	client := NewClient(controlURL)

	id, err := resolveInstanceID(client, verifyMockServerID, verifyMockServerPort)
	if err != nil {
		return err
	}

	resp, err := client.Verify(id, verifyWrite)
	if err != nil {
		return err
	}

	if !resp.Matched {
		printResult(resp, func() {
			fmt.Println("verification failed: not every expected interaction was matched")
			for _, m := range resp.Mismatches {
				fmt.Printf("  %s: expected %v, got %v (%s)\n", m.Field, m.Expected, m.Actual, m.Reason)
			}
		})
		return fmt.Errorf("%w: %d mismatch(es)", ErrMismatch, len(resp.Mismatches))
	}

	printResult(resp, func() {
		fmt.Println("verification passed")
	})
	return nil
}

// resolveInstanceID picks the instance to operate on from either an
// explicit id or a port, per the `--mock-server-id ID |
// --mock-server-port N` contract subcommands share.
func resolveInstanceID(client *Client, id string, port int) (string, error) {
	if id != "" {
		return id, nil
	}
	if port != 0 {
		return client.ResolveID(port)
	}
	return "", fmt.Errorf("%w: --mock-server-id or --mock-server-port is required", ErrUsage)
}
