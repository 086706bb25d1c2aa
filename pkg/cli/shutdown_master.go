package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shutdownMasterServerKey string

var shutdownMasterCmd = &cobra.Command{
	Use:   "shutdown-master",
	Short: "terminate the controlling process",
	RunE:  runShutdownMaster,
}

func init() {
	rootCmd.AddCommand(shutdownMasterCmd)
	shutdownMasterCmd.Flags().StringVar(&shutdownMasterServerKey, "server-key", "", "token matching the control service's startup --server-key (required)")
	shutdownMasterCmd.MarkFlagRequired("server-key")
}

func runShutdownMaster(cmd *cobra.Command, args []string) error {
	if shutdownMasterServerKey == "" {
		return fmt.Errorf("%w: --server-key is required", ErrUsage)
	}

	if err := NewClient(controlURL).ShutdownMaster(shutdownMasterServerKey); err != nil {
		return err
	}

	printResult(map[string]any{"shutdown": true}, func() {
		fmt.Println("master process shutdown requested")
	})
	return nil
}
