// Package main is the entry point for the truckopti CLI.
package main

import (
	"github.com/prakashgarg91/truckopti/cmd/truckopti/commands"
)

func main() {
	commands.Execute()
}
