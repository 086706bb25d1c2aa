package cli

import (
	"fmt"

	"github.com/pact-foundation/pact-mockserver/pkg/cli/internal/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list mock server instances registered with the control service",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	entries, err := NewClient(controlURL).List()
	if err != nil {
		return err
	}

	printList(entries, func() {
		if len(entries) == 0 {
			fmt.Println("no mock server instances registered")
			return
		}
		w := output.Table()
		defer w.Flush()
		fmt.Fprintln(w, "ID\tPORT\tPROVIDER\tSTATE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", e.ID, e.Port, e.Provider, e.VerificationState)
		}
	})
	return nil
}
