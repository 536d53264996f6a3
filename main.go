package main

import (
	"os"

	"github.com/skylarkops/dronecoord/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
