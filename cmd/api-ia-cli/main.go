// Package main provides the vehicle search CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/AioliaTech/api-ia/cmd/api-ia-cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
