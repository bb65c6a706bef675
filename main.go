// Package main is the entry point for the april CLI application.
// It sends code review and code generation requests to the April backend.
package main

import (
	"april/cli/cmd"
)

// main is the entry point for the april CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
