// Package main is the entry point for the housepoints admin CLI.
package main

import (
	"os"

	cli "housepoints/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
