package main

import (
	"os"

	"github.com/bozoyan/asrtools/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
