package gui

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	. "modernc.org/tk9.0"
	_ "modernc.org/tk9.0/themes/azure" // load theme

	"github.com/thiagokokada/gitk-explorer/internal/assets"
	"github.com/thiagokokada/gitk-explorer/internal/explorer"
	"github.com/thiagokokada/gitk-explorer/internal/git"
	gitbackend "github.com/thiagokokada/gitk-explorer/internal/git/backend"
)

const diffDebounceDelay = 120 * time.Millisecond

// RunConfig describes the parameters that control the GUI runtime.
type RunConfig struct {
	RepoPaths       []string
	Explorer        explorer.Config
	Backend         gitbackend.Kind
	Limit           int
	ThemePreference ThemePreference
	AutoReload      bool
	SyntaxHighlight bool
	// AssetsDir is where the icons are extracted, assets.DefaultDir() when
	// empty.
	AssetsDir string
}

func Run(cfg RunConfig) error {
	if len(cfg.RepoPaths) == 0 {
		cfg.RepoPaths = []string{"."}
	}
	if err := InitializeExtension("eval"); err != nil && err != AlreadyInitialized {
		return fmt.Errorf("init eval extension: %v", err)
	}
	provider := git.NewProvider(cfg.Backend, cfg.Limit)
	var repos []string
	for _, p := range cfg.RepoPaths {
		svc, err := provider.Service(p)
		if err != nil {
			return err
		}
		if root := svc.RepoPath(); !slices.Contains(repos, root) {
			repos = append(repos, root)
		}
	}
	assetCtx, err := extractAssets(cfg.AssetsDir)
	if err != nil {
		return err
	}
	pref := cfg.ThemePreference
	if pref < ThemeAuto || pref > ThemeDark {
		pref = ThemeAuto
	}
	app := &Controller{
		git:      provider,
		explorer: explorer.New(cfg.Explorer, provider, assetCtx),
		cfg: controllerConfig{
			autoReloadRequested: cfg.AutoReload,
			syntaxHighlight:     cfg.SyntaxHighlight,
		},
		repos: repos,
		theme: controllerTheme{
			pref: pref,
		},
	}
	app.state.rows = newRowTable()
	app.state.icons = make(map[string]*Img)
	app.state.diff.syntaxTags = make(map[string]string)
	return app.run()
}

// extractAssets falls back to a temporary directory when the cache
// directory is not writable.
func extractAssets(dir string) (assets.Context, error) {
	if dir == "" {
		dir = assets.DefaultDir()
	}
	ctx, err := assets.Extract(dir)
	if err == nil {
		return ctx, nil
	}
	slog.Warn("asset cache unavailable", slog.String("dir", dir), slog.Any("error", err))
	tmp, tmpErr := os.MkdirTemp("", "gitk-explorer-assets-")
	if tmpErr != nil {
		return assets.Context{}, fmt.Errorf("%w; temp dir: %w", err, tmpErr)
	}
	return assets.Extract(tmp)
}

func (a *Controller) run() error {
	defer a.shutdown()
	a.theme.palette = paletteForPreference(a.theme.pref)
	if a.theme.palette.ThemeName != "" {
		err := ActivateTheme(a.theme.palette.ThemeName)
		if err != nil {
			slog.Error(
				"activate theme",
				slog.String("theme", a.theme.palette.ThemeName),
				slog.Any("error", err),
			)
		}
	}
	applyAppIcon()
	a.buildUI()
	a.initMenubar()
	a.initAutoReload(a.cfg.autoReloadRequested)
	a.reloadTree()
	App.WmTitle("gitk-explorer")
	App.SetResizable(true, true)
	App.Center().Wait()
	return nil
}

func applyAppIcon() {
	data := assets.AppIcon()
	if len(data) == 0 {
		return
	}
	img := NewPhoto(Data(string(data)))
	if img == nil {
		return
	}
	App.IconPhoto(img)
}

// refresh rebuilds every row from fresh repository state, reopening the rows
// that were expanded.
func (a *Controller) refresh() {
	a.git.Reset()
	a.reloadTree()
}

func (a *Controller) setStatus(msg string) {
	text := msg
	PostEvent(func() {
		if a.ui.status != nil {
			a.ui.status.Configure(Txt(text))
		}
	}, false)
}

func (a *Controller) statusSummary() string {
	switch len(a.repos) {
	case 0:
		return "No repository open."
	case 1:
		return fmt.Sprintf("Repository %s", a.repos[0])
	default:
		return fmt.Sprintf("%d repositories", len(a.repos))
	}
}

func (a *Controller) copyToClipboard(text, what string) {
	if text == "" {
		return
	}
	ClipboardClear()
	ClipboardAppend(text)
	a.setStatus(fmt.Sprintf("Copied %s to clipboard.", what))
}
