package main

import (
	"github.com/urfave/cli/v2"
	"github.com/urnetwork/semver-release/v2/bump"
	"github.com/urnetwork/semver-release/v2/cmdutil"
	"github.com/urnetwork/semver-release/v2/latest"
	release_needed "github.com/urnetwork/semver-release/v2/release-needed"
)

func main() {

	app := &cli.App{
		Name:  "semver-release",
		Usage: "find and bump semantic version tags",
		Flags: cmdutil.GlobalFlags(),

		Commands: []*cli.Command{
			latest.Command(),
			bump.Command(),
			release_needed.Command(),
		},
	}
	app.RunAndExitOnError()
}
