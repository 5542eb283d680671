// Command sqlquery renders and runs SQL statements described in YAML.
package main

import (
	"os"

	"github.com/anoxia/sqlquery/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
