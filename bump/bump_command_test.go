package bump

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/urnetwork/semver-release/v2/cmdutil"
	"github.com/urnetwork/semver-release/v2/internal/gittest"
	"github.com/urnetwork/semver-release/v2/version"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &cli.App{
		Name:      "semver-release",
		Flags:     cmdutil.GlobalFlags(),
		Commands:  []*cli.Command{Command()},
		Writer:    &out,
		ErrWriter: io.Discard,
	}

	err := app.Run(append([]string{"semver-release"}, args...))
	return strings.TrimSpace(out.String()), err
}

func TestBumpDefaultPatch(t *testing.T) {
	r := gittest.Init(t)
	r.Tag("0.0.1", r.Commit())

	out, err := run(t, "bump", r.Dir)
	require.NoError(t, err)
	assert.Equal(t, "0.0.2", out)
	assert.True(t, r.HasTag("0.0.2"))
}

func TestBumpDefaultPrerelease(t *testing.T) {
	r := gittest.Init(t)
	r.Tag("0.0.1-beta.1", r.Commit())

	out, err := run(t, "bump", r.Dir)
	require.NoError(t, err)
	assert.Equal(t, "0.0.1-beta.2", out)
	assert.True(t, r.HasTag("0.0.1-beta.2"))
}

func TestBumpNonNumericPrereleaseCreatesNoTag(t *testing.T) {
	r := gittest.Init(t)
	r.Tag("0.0.1-beta", r.Commit())

	_, err := run(t, "bump", "prerelease", r.Dir)
	require.ErrorIs(t, err, version.ErrNonNumericPrereleaseTail)

	tags, err := r.Repo.Tags()
	require.NoError(t, err)
	count := 0
	require.NoError(t, tags.ForEach(func(_ *plumbing.Reference) error {
		count++
		return nil
	}))
	assert.Equal(t, 1, count)
}

func TestBumpGlobalMinorDryRun(t *testing.T) {
	r := gittest.Init(t)
	first := r.Commit()
	r.Tag("hello-world", first)
	r.Tag("0.0.1-beta.3", first)
	r.Tag("1.8.5", first)
	r.Tag("0.3.4", r.Commit())

	out, err := run(t, "--scope", "global", "bump", "--dry-run", "minor", r.Dir)
	require.NoError(t, err)
	assert.Equal(t, "1.9.0", out)
	assert.False(t, r.HasTag("1.9.0"))
}

func TestBumpLocalNeedsTagOnHead(t *testing.T) {
	r := gittest.Init(t)
	r.Tag("1.0.0", r.Commit())
	r.Commit()

	_, err := run(t, "bump", r.Dir)
	assert.ErrorIs(t, err, version.ErrNoCandidateVersion)
}

func TestBumpConfigFile(t *testing.T) {
	r := gittest.Init(t)
	h := r.Commit()
	r.Tag("v1.2.3", h)
	r.Tag("9.9.9", h)
	r.WriteFile(".semver-release.yaml", "prefix: v\nmessage: \"ship {{version}}\"\n")

	out, err := run(t, "bump", "--component", "major", r.Dir)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", out)

	ref, err := r.Repo.Tag("v2.0.0")
	require.NoError(t, err)
	obj, err := r.Repo.TagObject(ref.Hash())
	require.NoError(t, err)
	assert.Equal(t, h, obj.Target)
	assert.Equal(t, "ship 2.0.0\n", obj.Message)

	// the flag wins over the file
	out, err = run(t, "--prefix", "", "bump", "--dry-run", r.Dir)
	require.NoError(t, err)
	assert.Equal(t, "9.9.10", out)
}

func TestBumpUnknownComponent(t *testing.T) {
	r := gittest.Init(t)
	r.Tag("1.0.0", r.Commit())

	_, err := run(t, "bump", "--component", "build", r.Dir)
	assert.Error(t, err)
}

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		args      []string
		flag      string
		flagSet   bool
		component string
		path      string
		err       bool
	}{
		{args: nil, component: "", path: "."},
		{args: []string{"minor"}, component: "minor", path: "."},
		{args: []string{"minor", "/repo"}, component: "minor", path: "/repo"},
		{args: []string{"/repo"}, component: "", path: "/repo"},
		{args: []string{"./major"}, component: "", path: "./major"},
		{args: []string{"major"}, flag: "patch", flagSet: true, component: "patch", path: "major"},
		{args: nil, flag: "patch", flagSet: true, component: "patch", path: "."},
		{args: []string{"major", "/repo"}, flag: "patch", flagSet: true, err: true},
		{args: []string{"/a", "/b"}, err: true},
	}

	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			component, path, err := splitArgs(c.args, c.flag, c.flagSet)
			if c.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.component, component)
			assert.Equal(t, c.path, path)
		})
	}
}

func TestBumpComponentGivenTwice(t *testing.T) {
	r := gittest.Init(t)
	r.Tag("1.0.0", r.Commit())

	_, err := run(t, "bump", "--component", "patch", "major", r.Dir)
	require.ErrorContains(t, err, "--component")
	assert.False(t, r.HasTag("2.0.0"))
	assert.False(t, r.HasTag("1.0.1"))
}

func TestBumpGlobalDryRunUnbornHead(t *testing.T) {
	r := gittest.Init(t)
	r.Tag("1.4.0", r.Commit())
	r.Orphan("fresh")

	out, err := run(t, "--scope", "global", "bump", "--dry-run", r.Dir)
	require.NoError(t, err)
	assert.Equal(t, "1.4.1", out)

	_, err = run(t, "--scope", "global", "bump", r.Dir)
	assert.Error(t, err)
	assert.False(t, r.HasTag("1.4.1"))
}

func TestBumpOverflowCreatesNoTag(t *testing.T) {
	r := gittest.Init(t)
	r.Tag("0.0.1-beta.18446744073709551615", r.Commit())

	out, err := run(t, "bump", r.Dir)
	require.ErrorIs(t, err, version.ErrOverflow)
	assert.Empty(t, out)
	assert.False(t, r.HasTag("0.0.1-beta.0"))
}
