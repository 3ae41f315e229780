package main

import (
	"os"

	"github.com/luminaoffer/lumina-offer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
