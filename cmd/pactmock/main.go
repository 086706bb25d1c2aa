// Command pactmock is an in-process HTTP mock server that validates
// incoming requests against a pact consumer/provider contract and reports
// whether every expected interaction was exercised.
package main

import (
	"os"

	"github.com/pact-foundation/pact-mockserver/pkg/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
