// Package main is the entry point for the ratesctl operator CLI.
package main

import (
	"os"

	"rates-api-go/cmd/ratesctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
