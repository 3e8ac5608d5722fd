// Package main provides the extstub command.
package main

import (
	"os"

	"github.com/example/extstub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
