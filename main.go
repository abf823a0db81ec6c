package main

import (
	"os"

	"github.com/curbsignal/curbsignal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
