// Command contrary runs expectation scenarios and records their outcomes.
package main

import (
	"os"

	"github.com/roach88/contrary/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
