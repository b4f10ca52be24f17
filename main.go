// Package main is the entry point for the FinWatch ETL tool.
package main

import (
	"fmt"
	"os"

	"finwatch/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
