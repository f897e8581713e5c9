package main

import (
	"os"

	"github.com/cwbudde/go-jsvm/cmd/jsvm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
