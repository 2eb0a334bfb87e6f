// reqcheck CLI - validate JSON documents against declarative schemas.
package main

import (
	"github.com/nextyfine-dev/reqcheck/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate
	cli.Execute()
}
