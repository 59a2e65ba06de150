// Package main provides the workledger CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/workledger/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
