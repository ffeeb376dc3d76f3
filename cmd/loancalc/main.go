package main

import (
	"os"

	"github.com/Haleralex/emicalc/cmd/loancalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
