package main

import (
	"os"

	"github.com/akhaled/eduterm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
