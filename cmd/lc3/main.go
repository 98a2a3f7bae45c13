// Command lc3 inspects sessions of the lc3 codec and measures its quality
// and throughput on synthetic signals.
package main

import (
	"fmt"
	"os"

	"github.com/thesyncim/lc3/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lc3:", err)
		os.Exit(1)
	}
}
