package main

import (
	"os"

	"github.com/pitabwire/sonoctl/cmd/sonoctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
