package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/gitk-explorer/internal/assets"
	"github.com/thiagokokada/gitk-explorer/internal/buildinfo"
	"github.com/thiagokokada/gitk-explorer/internal/config"
	"github.com/thiagokokada/gitk-explorer/internal/explorer"
	"github.com/thiagokokada/gitk-explorer/internal/git"
	"github.com/thiagokokada/gitk-explorer/internal/gui"
	"github.com/thiagokokada/gitk-explorer/internal/outline"
)

func Run() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	var opts config.Options
	root := &cobra.Command{
		Use:           "gitk-explorer [repository...]",
		Short:         "Browse the branches, remotes and history of git repositories",
		Version:       buildinfo.VersionWithTags(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			opts = loaded
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			if opts.ConfigFile != "" {
				slog.Debug("config loaded", slog.String("file", opts.ConfigFile))
			}
			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return gui.Run(gui.RunConfig{
				RepoPaths:       args,
				Explorer:        opts.ExplorerConfig(),
				Backend:         opts.BackendKind(),
				Limit:           opts.Limit,
				ThemePreference: gui.ThemePreferenceFromString(opts.Mode),
				AutoReload:      !opts.NoWatch,
				SyntaxHighlight: !opts.NoSyntax,
			})
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(&cobra.Command{
		Use:   "tree [repository...]",
		Short: "Print the explorer tree to standard output",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTree(cmd.OutOrStdout(), opts, args)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.VersionWithTags())
		},
	})
	return root
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// printTree renders every repository down to --depth levels. Paths are
// resolved to their repository roots first so duplicates collapse.
func printTree(w io.Writer, opts config.Options, paths []string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	provider := git.NewProvider(opts.BackendKind(), opts.Limit)
	var repos []string
	for _, p := range paths {
		svc, err := provider.Service(p)
		if err != nil {
			return err
		}
		if root := svc.RepoPath(); !slices.Contains(repos, root) {
			repos = append(repos, root)
		}
	}
	e := explorer.New(opts.ExplorerConfig(), provider, assets.Context{Root: assets.DefaultDir()})
	return outline.New(opts.Depth).Fprint(w, e.Roots(repos...)...)
}
