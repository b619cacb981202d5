// Package main is the entry point for the tapagg dissector tool.
package main

import (
	"fmt"
	"os"

	"github.com/rizard/tapagg/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
