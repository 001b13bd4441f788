// Command pipeline runs the brand identity pipeline directly from the
// command line, without the optional HTTP surface.
package main

import (
	"fmt"
	"os"

	"github.com/brandforge/pipeline/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
