package main

import (
	"os"

	"github.com/quantfarm/yieldsim/cmd/yieldsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
