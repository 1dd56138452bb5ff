package main

import (
	"os"

	"github.com/shigure/anishelf/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
