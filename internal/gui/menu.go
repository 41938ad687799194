package gui

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitk-explorer/internal/buildinfo"
	"github.com/thiagokokada/gitk-explorer/internal/explorer"
)

func (a *Controller) initMenubar() {
	menubar := Menu(Tearoff(false))

	fileMenu := menubar.Menu(Tearoff(false))
	fileMenu.AddCommand(Lbl("Add Repository..."), Command(a.promptAddRepository))
	fileMenu.AddCommand(Lbl("Reload"), Command(a.refresh))
	fileMenu.AddSeparator()
	fileMenu.AddCommand(Lbl("Quit"), Command(func() { Destroy(App) }))
	menubar.AddCascade(Lbl("File"), Mnu(fileMenu))

	helpMenu := menubar.Menu(Tearoff(false))
	helpMenu.AddCommand(Lbl("Keyboard Shortcuts"), Command(a.showShortcutsDialog))
	helpMenu.AddCommand(Lbl("About gitk-explorer"), Command(a.showAboutDialog))
	menubar.AddCascade(Lbl("Help"), Mnu(helpMenu))

	App.Configure(Mnu(menubar))
}

func (a *Controller) promptAddRepository() {
	initial := "."
	if len(a.repos) > 0 {
		initial = a.repos[len(a.repos)-1]
	}
	dir := strings.TrimSpace(ChooseDirectory(
		Parent(App),
		Title("Select Git repository"),
		Initialdir(initial),
		Mustexist(true),
	))
	if dir == "" {
		return
	}
	a.addRepository(dir)
}

func (a *Controller) addRepository(path string) {
	svc, err := a.git.Service(path)
	if err != nil {
		a.showError("Add Repository", fmt.Sprintf("Unable to open repository:\n\n%v", err))
		return
	}
	root := svc.RepoPath()
	if slices.Contains(a.repos, root) {
		a.setStatus(fmt.Sprintf("%s is already open.", root))
		return
	}
	a.repos = append(a.repos, root)
	a.restartAutoReload()
	a.updateRepoLabel()
	a.reloadTree()
}

func (a *Controller) showAboutDialog() {
	MessageBox(
		Parent(App),
		Title("About gitk-explorer"),
		Icon("info"),
		Msg(fmt.Sprintf("gitk-explorer %s", buildinfo.VersionWithTags())),
		Type("ok"),
	)
}

func (a *Controller) showError(title, msg string) {
	MessageBox(
		Parent(App),
		Title(title),
		Icon("error"),
		Msg(msg),
		Type("ok"),
	)
}

func (a *Controller) bindTreeContextMenu() {
	handler := func(e *Event) {
		a.showTreeContextMenu(e)
	}
	Bind(a.ui.treeView, "<Button-2>", Command(handler))
	Bind(a.ui.treeView, "<Button-3>", Command(handler))
}

// showTreeContextMenu builds a menu with the actions that apply to the row
// under the pointer.
func (a *Controller) showTreeContextMenu(e *Event) {
	if e == nil {
		return
	}
	id := strings.TrimSpace(a.ui.treeView.IdentifyItem(e.X, e.Y))
	row, ok := a.state.rows.get(id)
	if !ok {
		return
	}
	actions := contextActions(row.Item.ContextValue)
	if len(actions) == 0 {
		return
	}
	a.ui.treeView.Selection("set", id)
	a.ui.treeView.Focus(id)
	if a.ui.treeMenu != nil {
		Destroy(a.ui.treeMenu.Window)
	}
	menu := App.Menu(Tearoff(false))
	for _, action := range actions {
		menu.AddCommand(Lbl(action.label), Command(func() { a.runAction(id, action.kind) }))
	}
	a.ui.treeMenu = menu
	Popup(menu.Window, e.XRoot, e.YRoot, nil)
}

func (a *Controller) runAction(id string, kind actionKind) {
	row, ok := a.state.rows.get(id)
	if !ok {
		return
	}
	switch kind {
	case actionSwitchBranch:
		if n, ok := row.Node.(*explorer.BranchNode); ok {
			a.switchBranch(row.RepoPath, n.Ref())
		}
	case actionCopyBranchName:
		if n, ok := row.Node.(explorer.RefNode); ok {
			a.copyToClipboard(n.Ref(), "branch name")
		}
	case actionCopyCommitHash:
		if n, ok := row.Node.(*explorer.CommitNode); ok {
			a.copyToClipboard(n.Commit.Hash, "commit hash")
		}
	case actionCopyCommitMessage:
		if n, ok := row.Node.(*explorer.CommitNode); ok {
			a.copyToClipboard(strings.TrimSpace(n.Commit.Message), "commit message")
		}
	case actionShowAll:
		a.activateShowAll(row)
	case actionRefresh:
		a.reloadRow(row)
	}
}

func (a *Controller) switchBranch(repoPath, branch string) {
	a.setStatus(fmt.Sprintf("Switching to %s...", branch))
	go func() {
		svc, err := a.git.Service(repoPath)
		if err == nil {
			err = svc.SwitchBranch(branch)
		}
		PostEvent(func() {
			if err != nil {
				slog.Error("switch branch", slog.String("branch", branch), slog.Any("error", err))
				a.showError("Switch Branch", fmt.Sprintf("Unable to switch to %s:\n\n%v", branch, err))
				a.setStatus(fmt.Sprintf("Failed to switch to %s.", branch))
				return
			}
			a.refresh()
			a.setStatus(fmt.Sprintf("Switched to %s.", branch))
		}, false)
	}()
}
