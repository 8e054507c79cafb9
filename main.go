// Package main is the entry point for the spikenet CLI.
package main

import (
	"github.com/hd220/spikenet/cmd"
)

func main() {
	cmd.Execute()
}
