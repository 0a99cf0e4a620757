// Package main is the entry point for the mutenv CLI.
package main

import "gooze.dev/pkg/mutenv/cmd"

func main() {
	cmd.Execute()
}
