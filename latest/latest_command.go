package latest

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/urnetwork/semver-release/v2/cmdutil"
	"github.com/urnetwork/semver-release/v2/version"
)

func Command() *cli.Command {

	cfg := struct {
		skipNewline bool
	}{}

	return &cli.Command{
		Name:      "latest",
		Args:      true,
		ArgsUsage: "[repo-path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "skip-newline",
				Aliases:     []string{"n"},
				Usage:       "skip newline",
				EnvVars:     []string{"SKIP_NEWLINE"},
				Destination: &cfg.skipNewline,
			},
		},
		Usage:       "Shows latest version",
		Description: "Prints the highest version tag on HEAD, or in the whole repository with --scope global.",
		Action: func(c *cli.Context) error {

			s, err := cmdutil.Open(c)
			if err != nil {
				return err
			}

			tags, head, err := s.Snapshot(s.Scope == version.Local)
			if err != nil {
				return err
			}

			latestVersion, err := version.Current(tags, s.Scope, head)
			if err != nil {
				return err
			}

			w := c.App.Writer
			fmt.Fprint(w, latestVersion)

			if !cfg.skipNewline {
				fmt.Fprintln(w)
			}

			return nil

		},
	}
}
