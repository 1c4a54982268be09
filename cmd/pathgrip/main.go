package main

import (
	"os"

	"pathgrip/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
