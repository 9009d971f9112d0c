// Package main is the entry point for wp-gitops.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\n❌ Virhe: %v\n", err)
		os.Exit(1)
	}
}
