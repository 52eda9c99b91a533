package main

import (
	"os"

	"github.com/dmitrymomot/upiqr/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
