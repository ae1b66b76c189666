package bump

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/urfave/cli/v2"
	"github.com/urnetwork/semver-release/v2/cmdutil"
	"github.com/urnetwork/semver-release/v2/version"
)

func Command() *cli.Command {
	cfg := struct {
		component   string
		dryRun      bool
		message     string
		taggerName  string
		taggerEmail string
	}{}

	return &cli.Command{
		Name:      "bump",
		Aliases:   []string{"release"},
		ArgsUsage: "[major|minor|patch|prerelease] [repo-path]",
		Usage:     "Tags HEAD with the next version",
		Description: "Finds the current version, increments the requested component and creates an annotated tag on HEAD.\n" +
			"Without a component, prerelease versions bump their trailing number and releases bump patch.\n" +
			"A positional component and --component (RELEASE_TYPE) are mutually exclusive; with --component set, the only\n" +
			"argument is the repo path. Otherwise a directory named like a component must be given as ./major.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "component",
				Aliases:     []string{"type"},
				Usage:       "component to increment: major, minor, patch or prerelease",
				EnvVars:     []string{"RELEASE_TYPE"},
				Destination: &cfg.component,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "print the next version without creating a tag",
				EnvVars:     []string{"DRY_RUN"},
				Destination: &cfg.dryRun,
			},
			&cli.StringFlag{
				Name:        "tag-message",
				Usage:       "annotated tag message, {{version}} is replaced by the new version",
				EnvVars:     []string{"TAG_MESSAGE"},
				Destination: &cfg.message,
			},
			&cli.StringFlag{
				Name:        "tagger-name",
				Usage:       "tagger name",
				EnvVars:     []string{"TAGGER_NAME"},
				Destination: &cfg.taggerName,
			},
			&cli.StringFlag{
				Name:        "tagger-email",
				Usage:       "tagger email",
				EnvVars:     []string{"TAGGER_EMAIL"},
				Destination: &cfg.taggerEmail,
			},
		},
		Action: func(c *cli.Context) error {

			componentName, repoPath, err := splitArgs(c.Args().Slice(), cfg.component, c.IsSet("component"))
			if err != nil {
				return err
			}

			component, err := version.ParseComponent(componentName)
			if err != nil {
				return err
			}

			s, err := cmdutil.OpenPath(c, repoPath)
			if err != nil {
				return err
			}

			// a global dry run never looks at HEAD
			tags, head, err := s.Snapshot(s.Scope == version.Local || !cfg.dryRun)
			if err != nil {
				return err
			}

			current, next, err := version.Next(tags, s.Scope, head, component)
			if err != nil {
				return err
			}
			s.Logger.Debug("bumping", "current", current, "next", next, "component", component)

			fmt.Fprintln(c.App.Writer, next)

			if cfg.dryRun {
				s.Logger.Info("dry run, not creating tag", "tag", s.Repo.TagName(next))
				return nil
			}

			tagger := object.Signature{
				Name:  s.Config.Tagger.Name,
				Email: s.Config.Tagger.Email,
			}
			if cfg.taggerName != "" {
				tagger.Name = cfg.taggerName
			}
			if cfg.taggerEmail != "" {
				tagger.Email = cfg.taggerEmail
			}

			tmpl := s.Config
			if cfg.message != "" {
				tmpl.Message = cfg.message
			}

			return s.Repo.CreateTag(s.Repo.TagName(next), head, tagger, tmpl.TagMessage(next.String()))

		},
	}
}

// splitArgs separates an optional leading component from the repo path.
func splitArgs(args []string, flagComponent string, flagSet bool) (component, repoPath string, err error) {
	component = flagComponent

	if len(args) > 0 && args[0] != "" {
		if _, perr := version.ParseComponent(args[0]); perr == nil {
			if flagSet && len(args) > 1 {
				return "", "", fmt.Errorf("component %q given both as argument and with --component %q", args[0], flagComponent)
			}
			if !flagSet {
				component = args[0]
				args = args[1:]
			}
		}
	}

	switch len(args) {
	case 0:
		return component, ".", nil
	case 1:
		if args[0] == "" {
			return component, ".", nil
		}
		return component, args[0], nil
	}
	return "", "", fmt.Errorf("too many arguments: %s", strings.Join(args, " "))
}
