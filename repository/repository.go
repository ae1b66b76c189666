// Package repository reads version tags from a git repository and creates
// new ones.
package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/urnetwork/semver-release/v2/version"
)

// maxTagDepth bounds how many tag objects are followed when a tag points at
// another tag.
const maxTagDepth = 16

var ErrNoRepository = errors.New("no git repository found")

type Repository struct {
	repo   *git.Repository
	root   string
	prefix string
	logger *log.Logger
}

type Option func(*Repository)

// WithPrefix sets the string stripped from tag names before parsing.
func WithPrefix(prefix string) Option {
	return func(r *Repository) {
		r.prefix = prefix
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// New wraps an already opened repository.
func New(repo *git.Repository, opts ...Option) *Repository {
	r := &Repository{
		repo:   repo,
		logger: log.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Open finds the repository containing path and opens it.
func Open(path string, opts ...Option) (*Repository, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of %s: %w", path, err)
	}

	root, err := FindRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to find repository root: %w", err)
	}

	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repo: %w", err)
	}

	r := New(repo, opts...)
	r.root = root
	return r, nil
}

// FindRoot walks up from dir to the first directory containing .git.
func FindRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoRepository
		}
		dir = parent
	}
}

// Root is the worktree directory, empty for in-memory repositories.
func (r *Repository) Root() string {
	return r.root
}

// TagName is the name a tag for v gets.
func (r *Repository) TagName(v *semver.Version) string {
	return r.prefix + v.String()
}

// Tags returns every tag whose name is a semantic version, resolved to the
// commit it points at. Other tags are skipped.
func (r *Repository) Tags() ([]version.Tag, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}

	var tags []version.Tag
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()

		v, err := r.parse(name)
		if err != nil {
			r.logger.Debug("skipping tag", "tag", name, "error", err)
			return nil
		}

		commit, err := r.peel(ref.Hash())
		if err != nil {
			return fmt.Errorf("failed to resolve tag %s: %w", name, err)
		}

		tags = append(tags, version.Tag{
			Name:    name,
			Version: v,
			Commit:  commit,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}

	r.logger.Debug("collected version tags", "count", len(tags))
	return tags, nil
}

func (r *Repository) parse(name string) (*semver.Version, error) {
	if !strings.HasPrefix(name, r.prefix) {
		return nil, fmt.Errorf("missing prefix %q", r.prefix)
	}
	return semver.StrictNewVersion(strings.TrimPrefix(name, r.prefix))
}

// peel follows annotated tag objects until it reaches a non-tag object.
func (r *Repository) peel(hash plumbing.Hash) (plumbing.Hash, error) {
	for i := 0; i < maxTagDepth; i++ {
		tagObject, err := r.repo.TagObject(hash)
		switch err {
		case plumbing.ErrObjectNotFound:
			// lightweight tag, the reference points at the commit
			return hash, nil
		case nil:
			hash = tagObject.Target
		default:
			return plumbing.ZeroHash, fmt.Errorf("failed to get tag object: %w", err)
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("tag chain at %s is deeper than %d", hash, maxTagDepth)
}

// Head returns the hash of the checked out commit.
func (r *Repository) Head() (plumbing.Hash, error) {
	head, err := r.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get head: %w", err)
	}

	headCommit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get head commit: %w", err)
	}

	return headCommit.Hash, nil
}

// IsClean reports whether the worktree has no uncommitted changes.
func (r *Repository) IsClean() (bool, string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, "", fmt.Errorf("failed to get worktree: %w", err)
	}

	st, err := wt.Status()
	if err != nil {
		return false, "", fmt.Errorf("failed to get status: %w", err)
	}

	return st.IsClean(), st.String(), nil
}

// CreateTag creates an annotated tag called name on commit.
func (r *Repository) CreateTag(name string, commit plumbing.Hash, tagger object.Signature, message string) error {
	if tagger.When.IsZero() {
		tagger.When = time.Now()
	}

	_, err := r.repo.CreateTag(name, commit, &git.CreateTagOptions{
		Tagger:  &tagger,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}

	r.logger.Info("created tag", "tag", name, "commit", commit.String())
	return nil
}
