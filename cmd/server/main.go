// Package main implements the entry point for the blogging API server.
// The default command serves HTTP; "migrate" manages the database schema.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
