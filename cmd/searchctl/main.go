// cmd/searchctl/main.go

package main

import (
	"os"

	"marketplace/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
