// Package main is the entry point for the snowjson CLI.
package main

import (
	"os"

	"github.com/data-natewilbert/snow-json/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
