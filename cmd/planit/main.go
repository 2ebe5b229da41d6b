package main

import (
	"os"

	"github.com/MikeBiancalana/planit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
