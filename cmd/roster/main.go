// main is the entry point of the roster binary.
//
// RUNNING THE SERVER:
//
//	go run ./cmd/roster serve --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/roster serve
//
// Other commands: init [--seed], view [--format table|json|yaml],
// demo sql, demo orm, version.
package main

import (
	"os"

	"github.com/aanand-mishra/roster-api/internal/cli"
)

func main() {
	os.Exit(cli.New(os.Stdout, os.Stderr).Execute())
}
