// Package cmdutil holds the setup shared by every command: global flags,
// logger, config file and repository.
package cmdutil

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/urfave/cli/v2"
	"github.com/urnetwork/semver-release/v2/config"
	"github.com/urnetwork/semver-release/v2/logging"
	"github.com/urnetwork/semver-release/v2/repository"
	"github.com/urnetwork/semver-release/v2/version"
)

const (
	FlagVerbose = "verbose"
	FlagPrefix  = "prefix"
	FlagScope   = "scope"
)

// GlobalFlags are registered on the app and visible to every command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    FlagVerbose,
			Aliases: []string{"v"},
			Usage:   "enable debug logging",
			EnvVars: []string{"VERBOSE"},
		},
		&cli.StringFlag{
			Name:    FlagPrefix,
			Usage:   "tag name prefix, e.g. v",
			EnvVars: []string{"TAG_PREFIX"},
		},
		&cli.StringFlag{
			Name:    FlagScope,
			Usage:   "where to look for the current version: local (tags on HEAD) or global (all tags)",
			EnvVars: []string{"SCOPE"},
		},
	}
}

type Session struct {
	Repo   *repository.Repository
	Config config.Config
	Scope  version.Scope
	Logger *log.Logger
}

// Open resolves the repository from the first argument (default ".").
func Open(c *cli.Context) (*Session, error) {
	repoPath := c.Args().First()
	if repoPath == "" {
		repoPath = "."
	}
	return OpenPath(c, repoPath)
}

// OpenPath opens the repository containing repoPath and merges the config
// file found at its root with the global flags. Flags win.
func OpenPath(c *cli.Context, repoPath string) (*Session, error) {
	logger := logging.New(c.App.ErrWriter, c.Bool(FlagVerbose))

	dir, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of %s: %w", repoPath, err)
	}

	root, err := repository.FindRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to find repository root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	if c.IsSet(FlagPrefix) {
		cfg.Prefix = c.String(FlagPrefix)
	}
	if c.IsSet(FlagScope) {
		cfg.Scope = c.String(FlagScope)
	}

	scope, err := version.ParseScope(cfg.Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid scope: %w", err)
	}

	repo, err := repository.Open(root,
		repository.WithLogger(logger),
		repository.WithPrefix(cfg.Prefix),
	)
	if err != nil {
		return nil, err
	}

	logger.Debug("session", "root", root, "prefix", cfg.Prefix, "scope", scope)

	return &Session{
		Repo:   repo,
		Config: cfg,
		Scope:  scope,
		Logger: logger,
	}, nil
}

// Snapshot reads the version tags once. HEAD is only resolved when
// needHead is set, so an unborn HEAD does not break global lookups.
func (s *Session) Snapshot(needHead bool) ([]version.Tag, plumbing.Hash, error) {
	tags, err := s.Repo.Tags()
	if err != nil {
		return nil, plumbing.ZeroHash, err
	}

	if !needHead {
		return tags, plumbing.ZeroHash, nil
	}

	head, err := s.Repo.Head()
	if err != nil {
		return nil, plumbing.ZeroHash, err
	}

	return tags, head, nil
}
