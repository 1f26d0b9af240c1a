// Package main is the entry point for the vpiscope CLI.
package main

import "vpiscope.dev/pkg/vpiscope/cmd"

func main() {
	cmd.Execute()
}
