package main

import (
	"os"

	"github.com/msto63/leitstand/cmd/leitstand/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
