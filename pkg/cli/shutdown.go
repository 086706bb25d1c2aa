package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	shutdownMockServerID   string
	shutdownMockServerPort int
)

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "stop a single mock server instance",
	RunE:  runShutdown,
}

func init() {
	rootCmd.AddCommand(shutdownCmd)
	shutdownCmd.Flags().StringVar(&shutdownMockServerID, "mock-server-id", "", "id of the instance to stop")
	shutdownCmd.Flags().IntVar(&shutdownMockServerPort, "mock-server-port", 0, "port of the instance to stop")
}

func runShutdown(cmd *cobra.Command, args []string) error {
	client := NewClient(controlURL)

	id, err := resolveInstanceID(client, shutdownMockServerID, shutdownMockServerPort)
	if err != nil {
		return err
	}

	if err := client.Shutdown(id); err != nil {
		return err
	}

	printResult(map[string]any{"id": id, "shutdown": true}, func() {
		fmt.Printf("stopped mock server %s\n", id)
	})
	return nil
}
