package release_needed

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/urnetwork/semver-release/v2/cmdutil"
	"github.com/urnetwork/semver-release/v2/version"
)

func Command() *cli.Command {

	return &cli.Command{
		Flags:     []cli.Flag{},
		Name:      "release-needed",
		ArgsUsage: "[repo-path]",
		Usage:     "Prints true unless HEAD already carries a version tag",
		Action: func(c *cli.Context) error {

			s, err := cmdutil.Open(c)
			if err != nil {
				return err
			}

			clean, status, err := s.Repo.IsClean()
			if err != nil {
				return err
			}

			if !clean {
				return fmt.Errorf("working directory is not clean:\n%v", status)
			}

			tags, head, err := s.Snapshot(true)
			if err != nil {
				return err
			}

			current, err := version.Current(tags, version.Local, head)
			switch {
			case errors.Is(err, version.ErrNoCandidateVersion):
				fmt.Fprintln(c.App.Writer, "true")
				return nil
			case err != nil:
				return err
			}

			// no changes since last release
			s.Logger.Debug("head is already released", "version", current)
			fmt.Fprintln(c.App.Writer, "false")
			return nil

		},
	}
}
