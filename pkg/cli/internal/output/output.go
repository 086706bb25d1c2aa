// Package output holds the two output primitives pactmock's subcommands
// render through: JSON for --json, Table for the default human-readable
// listing.
package output

import (
	"encoding/json"
	"os"
	"text/tabwriter"
)

// JSON writes indented JSON to stdout.
func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table creates an aligned table writer for stdout.
// Remember to call Flush() when done writing.
func Table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}
