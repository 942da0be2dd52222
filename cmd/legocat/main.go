// Command legocat queries and serves the LEGO catalog.
package main

import (
	"os"

	"github.com/sfko/legocat/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
