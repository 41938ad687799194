package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagokokada/gitk-explorer/internal/explorer"
	gitbackend "github.com/thiagokokada/gitk-explorer/internal/git/backend"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func isolate(t *testing.T) {
	t.Helper()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	for _, key := range []string{"LAYOUT", "LIMIT", "BACKEND", "MODE", "SHOW_TRACKING_BRANCH"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+"_"+key))
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	opts, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "tree", opts.Layout)
	assert.Equal(t, DefaultLimit, opts.Limit)
	assert.Equal(t, "native", opts.Backend)
	assert.Equal(t, "auto", opts.Mode)
	assert.True(t, opts.ShowTrackingBranch)
	assert.Equal(t, DefaultDepth, opts.Depth)
	assert.Empty(t, opts.ConfigFile)
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("layout: list\nlimit: 50\nbackend: gitcli\nshow-tracking-branch: false\n"), 0o644))
	t.Setenv("GITK_EXPLORER_LIMIT", "75")

	opts, err := Load(newFlags(t, "--config", file, "--backend", "native"))
	require.NoError(t, err)
	assert.Equal(t, "list", opts.Layout)
	assert.Equal(t, 75, opts.Limit)
	assert.Equal(t, "native", opts.Backend)
	assert.False(t, opts.ShowTrackingBranch)
	assert.Equal(t, file, opts.ConfigFile)
}

func TestLoadDefaultConfigFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(DefaultConfigFile()), 0o755))
	require.NoError(t, os.WriteFile(DefaultConfigFile(), []byte("mode: dark\n"), 0o644))

	opts, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "dark", opts.Mode)
	assert.Equal(t, DefaultConfigFile(), opts.ConfigFile)
}

func TestLoadMissingExplicitConfig(t *testing.T) {
	isolate(t)
	_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	_, err := Load(newFlags(t, "--layout", "grid", "--backend", "svn"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grid")
	assert.Contains(t, err.Error(), "svn")
}

func TestValidate(t *testing.T) {
	valid := Options{Layout: "list", Backend: "cli", Mode: "Light", Limit: 0}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		opts Options
	}{
		{"mode", Options{Mode: "sepia"}},
		{"limit", Options{Limit: -1}},
		{"depth", Options{Depth: -2}},
		{"layout", Options{Layout: "flat"}},
		{"backend", Options{Backend: "hg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.opts.Validate())
		})
	}
}

func TestExplorerConfig(t *testing.T) {
	opts := Options{Layout: "list", ShowTrackingBranch: true, Limit: 25, Backend: "git"}
	cfg := opts.ExplorerConfig()
	assert.Equal(t, explorer.BranchesLayoutList, cfg.Branches.Layout)
	assert.True(t, cfg.ShowTrackingBranch)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, gitbackend.KindGitCLI, opts.BackendKind())
}
