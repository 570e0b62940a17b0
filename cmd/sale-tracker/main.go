// Package main is the entry point for the sale-tracker service.
package main

import (
	"os"

	"github.com/donaldgifford/sale-tracker/cmd/sale-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
