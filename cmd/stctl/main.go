// Package main is the entry point for the stctl CLI client.
package main

import (
	"github.com/donaldgifford/sale-tracker/cmd/stctl/cmd"
)

func main() {
	cmd.Execute()
}
