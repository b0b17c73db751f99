// Command casehist purges historic case instances from a SQLite archive.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/casehistory/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
