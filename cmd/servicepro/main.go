package main

import (
	"os"

	"servicepro/cmd/servicepro/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
