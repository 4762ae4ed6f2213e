// Package main provides the toolgate command: a sandboxed tool-execution
// gateway with an operator console for approving dangerous calls.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
