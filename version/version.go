// Package version selects the current semantic version from a snapshot of
// repository tags and computes the next one.
package version

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	ErrNoCandidateVersion       = errors.New("no version tags found")
	ErrMissingPrerelease        = errors.New("no prerelease identifiers found")
	ErrNonNumericPrereleaseTail = errors.New("identifier is not purely numeric")
	ErrOverflow                 = errors.New("version number cannot be incremented")
)

// NonNumericTailError reports the prerelease identifier that could not be
// incremented.
type NonNumericTailError struct {
	Identifier string
}

func (e *NonNumericTailError) Error() string {
	return fmt.Sprintf("prerelease identifier %q is not purely numeric", e.Identifier)
}

func (e *NonNumericTailError) Is(target error) bool {
	return target == ErrNonNumericPrereleaseTail
}

// Tag is a repository tag whose name parsed as a semantic version.
type Tag struct {
	Name    string
	Version *semver.Version
	Commit  plumbing.Hash
}

type Scope int

const (
	// Local only considers tags pointing at HEAD.
	Local Scope = iota
	// Global considers every tag in the repository.
	Global
)

func (s Scope) String() string {
	switch s {
	case Local:
		return "local"
	case Global:
		return "global"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return Local, nil
	case "global":
		return Global, nil
	}
	return Local, fmt.Errorf("unknown scope %q, expected local or global", s)
}

type Component int

const (
	// Default picks Prerelease or Patch depending on the current version.
	Default Component = iota
	Major
	Minor
	Patch
	Prerelease
)

func (c Component) String() string {
	switch c {
	case Default:
		return "default"
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	case Prerelease:
		return "prerelease"
	}
	return fmt.Sprintf("Component(%d)", int(c))
}

func ParseComponent(s string) (Component, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Default, nil
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	case "prerelease", "pre":
		return Prerelease, nil
	}
	return Default, fmt.Errorf("unknown component %q, expected major, minor, patch or prerelease", s)
}

// Current returns the highest version in scope. With Local scope only tags
// whose commit equals head are candidates; several tags may share a commit,
// so all of them are compared rather than trusting the first one found.
func Current(tags []Tag, scope Scope, head plumbing.Hash) (*semver.Version, error) {
	var latest *semver.Version
	for _, t := range tags {
		if t.Version == nil {
			continue
		}
		if scope == Local && t.Commit != head {
			continue
		}
		if latest == nil || t.Version.GreaterThan(latest) {
			latest = t.Version
		}
	}

	if latest == nil {
		if scope == Local {
			return nil, fmt.Errorf("%w on commit %s", ErrNoCandidateVersion, head)
		}
		return nil, ErrNoCandidateVersion
	}

	return latest, nil
}

// DefaultComponent is the component bumped when none is requested.
func DefaultComponent(v *semver.Version) Component {
	if v.Prerelease() != "" {
		return Prerelease
	}
	return Patch
}

// Bump returns a new version with component c incremented. v is never
// modified.
func Bump(v *semver.Version, c Component) (*semver.Version, error) {
	if c == Default {
		c = DefaultComponent(v)
	}

	switch c {
	case Major:
		if v.Major() == math.MaxUint64 {
			return nil, fmt.Errorf("major %d: %w", v.Major(), ErrOverflow)
		}
		return semver.New(v.Major()+1, 0, 0, "", ""), nil
	case Minor:
		if v.Minor() == math.MaxUint64 {
			return nil, fmt.Errorf("minor %d: %w", v.Minor(), ErrOverflow)
		}
		return semver.New(v.Major(), v.Minor()+1, 0, "", ""), nil
	case Patch:
		if v.Patch() == math.MaxUint64 {
			return nil, fmt.Errorf("patch %d: %w", v.Patch(), ErrOverflow)
		}
		return semver.New(v.Major(), v.Minor(), v.Patch()+1, "", ""), nil
	case Prerelease:
		pre, err := IncrementPrerelease(v.Prerelease())
		if err != nil {
			return nil, err
		}
		return semver.New(v.Major(), v.Minor(), v.Patch(), pre, ""), nil
	}

	return nil, fmt.Errorf("unknown component %s", c)
}

// SplitPrerelease splits a prerelease field at its last dot. head is empty
// when the field has a single identifier.
func SplitPrerelease(pre string) (head string, tail uint64, err error) {
	if pre == "" {
		return "", 0, ErrMissingPrerelease
	}

	ident := pre
	if i := strings.LastIndexByte(pre, '.'); i >= 0 {
		head, ident = pre[:i], pre[i+1:]
	}

	// ParseUint alone would accept a leading '+'.
	if ident == "" || strings.TrimLeft(ident, "0123456789") != "" {
		return "", 0, &NonNumericTailError{Identifier: ident}
	}

	// semver orders numeric identifiers above uint64 as text, so they are
	// rejected rather than incremented into a lower version.
	tail, err = strconv.ParseUint(ident, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("prerelease identifier %s: %w", ident, ErrOverflow)
	}

	return head, tail, nil
}

// IncrementPrerelease adds one to the trailing numeric identifier of pre.
func IncrementPrerelease(pre string) (string, error) {
	head, tail, err := SplitPrerelease(pre)
	if err != nil {
		return "", err
	}
	if tail == math.MaxUint64 {
		return "", fmt.Errorf("prerelease identifier %d: %w", tail, ErrOverflow)
	}

	next := strconv.FormatUint(tail+1, 10)
	if head == "" {
		return next, nil
	}
	return head + "." + next, nil
}

// Next resolves the current version under scope and bumps component c.
func Next(tags []Tag, scope Scope, head plumbing.Hash, c Component) (current, next *semver.Version, err error) {
	current, err = Current(tags, scope, head)
	if err != nil {
		return nil, nil, err
	}

	next, err = Bump(current, c)
	if err != nil {
		return current, nil, fmt.Errorf("failed to bump %s: %w", current, err)
	}

	return current, next, nil
}
