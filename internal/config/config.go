// Package config loads gitk-explorer options from flags, environment and
// the user's config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thiagokokada/gitk-explorer/internal/explorer"
	"github.com/thiagokokada/gitk-explorer/internal/git"
	gitbackend "github.com/thiagokokada/gitk-explorer/internal/git/backend"
)

// EnvPrefix prefixes every environment variable, e.g. GITK_EXPLORER_LAYOUT.
const EnvPrefix = "GITK_EXPLORER"

// defaults
var (
	DefaultLayout  = explorer.BranchesLayoutTree.String()
	DefaultLimit   = git.DefaultLimit
	DefaultBackend = string(gitbackend.KindNative)
	DefaultMode    = "auto"
	DefaultDepth   = 3
)

var modes = []string{"auto", "light", "dark"}

type Options struct {
	Layout             string `mapstructure:"layout"`
	ShowTrackingBranch bool   `mapstructure:"show-tracking-branch"`
	Limit              int    `mapstructure:"limit"`
	Backend            string `mapstructure:"backend"`
	Mode               string `mapstructure:"mode"`
	NoWatch            bool   `mapstructure:"nowatch"`
	NoSyntax           bool   `mapstructure:"nosyntax"`
	Depth              int    `mapstructure:"depth"`
	Verbose            bool   `mapstructure:"verbose"`

	// ConfigFile is the file the options were read from, empty when none.
	ConfigFile string `mapstructure:"-"`
}

// RegisterFlags adds every option flag to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("layout", DefaultLayout, "branch layout: tree or list")
	fs.Bool("show-tracking-branch", true, "show the upstream next to tracking branches")
	fs.Int("limit", DefaultLimit, "number of commits listed under a branch before \"Show All\"")
	fs.String("backend", DefaultBackend, "git backend: native or gitcli")
	fs.String("mode", DefaultMode, "color mode: auto, light, or dark")
	fs.Bool("nowatch", false, "disable automatic reload when repository changes")
	fs.Bool("nosyntax", false, "disable syntax highlighting in the diff viewer")
	fs.Int("depth", DefaultDepth, "levels expanded by the tree command")
	fs.BoolP("verbose", "v", false, "enable verbose logging")
	fs.String("config", "", "config file (default $XDG_CONFIG_HOME/gitk-explorer/config.yaml)")
}

// DefaultConfigFile is the per-user config file location.
func DefaultConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "gitk-explorer", "config.yaml")
}

// Load merges, by decreasing precedence, changed flags, GITK_EXPLORER_*
// environment variables, the config file and flag defaults. An explicit
// --config file must exist; the default one is optional.
func Load(flags *pflag.FlagSet) (Options, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Options{}, err
	}

	configFile, explicit := v.GetString("config"), true
	if configFile == "" {
		configFile, explicit = DefaultConfigFile(), false
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Options{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
		configFile = ""
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	opts.ConfigFile = configFile
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate reports every invalid option at once.
func (o Options) Validate() error {
	var errs []error
	if _, err := explorer.ParseBranchesLayout(o.Layout); err != nil {
		errs = append(errs, err)
	}
	if _, err := gitbackend.ParseKind(o.Backend); err != nil {
		errs = append(errs, err)
	}
	if !validMode(o.Mode) {
		errs = append(errs, fmt.Errorf("unknown mode %q (want %s)", o.Mode, strings.Join(modes, ", ")))
	}
	if o.Limit < 0 {
		errs = append(errs, fmt.Errorf("limit must not be negative, got %d", o.Limit))
	}
	if o.Depth < 0 {
		errs = append(errs, fmt.Errorf("depth must not be negative, got %d", o.Depth))
	}
	return errors.Join(errs...)
}

func validMode(raw string) bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return true
	}
	for _, m := range modes {
		if raw == m {
			return true
		}
	}
	return false
}

// ExplorerConfig converts the options into the node display configuration.
func (o Options) ExplorerConfig() explorer.Config {
	layout, _ := explorer.ParseBranchesLayout(o.Layout)
	return explorer.Config{
		Branches:           explorer.BranchesConfig{Layout: layout},
		ShowTrackingBranch: o.ShowTrackingBranch,
		PageSize:           o.Limit,
	}
}

func (o Options) BackendKind() gitbackend.Kind {
	kind, _ := gitbackend.ParseKind(o.Backend)
	return kind
}
