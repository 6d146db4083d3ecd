// Package main provides the tidyname binary entry point.
// Tidyname renames files based on their content, using a locally hosted
// language model to derive standardized, descriptive names.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/tidyname/tidyname/commands"
)

const (
	Version = "0.1.0"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := commands.NewRootCmd(Version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
