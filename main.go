package main

import (
	"os"

	"github.com/odudnyk/cvscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
