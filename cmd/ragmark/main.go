package main

import (
	"github.com/mwiater/ragmark/internal/cli"
)

// main starts the ragmark CLI application by delegating to the cobra root
// command defined in the cli package.
func main() {
	cli.Execute()
}
