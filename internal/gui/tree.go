package gui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	. "modernc.org/tk9.0"

	"github.com/thiagokokada/gitk-explorer/internal/explorer"
	"github.com/thiagokokada/gitk-explorer/internal/gui/tkutil"
)

// reloadTree drops every row and inserts fresh roots. Rows that were open
// before are reopened as their parents load.
func (a *Controller) reloadTree() {
	if a.ui.treeView == nil {
		return
	}
	restore := a.state.rows.openKeys()
	a.deleteTreeItems(a.state.rows.roots...)
	a.state.rows.reset()
	a.state.restore = restore
	for _, root := range a.explorer.Roots(a.repos...) {
		a.insertRow("", root, "")
	}
	slog.Debug("tree reloaded", slog.Int("roots", len(a.repos)), slog.Int("restore", len(restore)))
	a.setStatus(a.statusSummary())
}

func (a *Controller) insertRow(parent string, node explorer.Node, repoPath string) *treeRow {
	row := a.state.rows.add(parent, node, repoPath)
	if img := a.iconImage(row.Item.IconPath); img != nil {
		a.ui.treeView.Insert(parent, "end", Id(row.ID), Txt(row.Item.Label), Image(img), Tags(rowTag(row)))
	} else {
		a.ui.treeView.Insert(parent, "end", Id(row.ID), Txt(row.Item.Label), Tags(rowTag(row)))
	}
	if !row.expandable() {
		return row
	}
	a.ui.treeView.Insert(row.ID, "end", Id(row.placeholderID()), Txt(placeholderLabel), Tags("message"))
	if row.Item.CollapsibleState == explorer.CollapsibleExpanded || a.state.restore[row.Key] {
		if err := tkutil.SetTreeItemOpen(a.ui.treeView, row.ID, true); err != nil {
			slog.Debug("open tree item", slog.Any("error", err))
		}
		a.loadChildren(row)
	}
	return row
}

func rowTag(row *treeRow) string {
	switch {
	case row.Failed:
		return "error"
	case row.Item.ContextValue == explorer.ResourceMessage, row.Item.ContextValue == explorer.ResourceShowAll:
		return "message"
	default:
		return "node"
	}
}

// loadChildren queries the row's children off the event loop and inserts
// them once they arrive.
func (a *Controller) loadChildren(row *treeRow) {
	if row.Loading {
		return
	}
	row.Loading = true
	gen := a.state.rows.gen
	id, node := row.ID, row.Node
	slog.Debug("load children", slog.String("row", row.Item.Label))
	go func() {
		children, err := node.Children()
		PostEvent(func() {
			a.applyChildren(gen, id, node, children, err)
		}, false)
	}()
}

func (a *Controller) applyChildren(gen int, id string, node explorer.Node, children []explorer.Node, err error) {
	if gen != a.state.rows.gen {
		return
	}
	row, ok := a.state.rows.get(id)
	if !ok || row.Node != node {
		return
	}
	row.Loading = false
	a.deleteTreeItems(row.placeholderID())
	a.deleteTreeItems(a.state.rows.dropChildren(id)...)
	row.Loaded = true
	if err != nil {
		slog.Error("load children", slog.String("row", row.Item.Label), slog.Any("error", err))
		a.insertErrorRow(id, err)
		a.setStatus(fmt.Sprintf("Failed to load %s: %v", row.Item.Label, err))
		return
	}
	for _, child := range children {
		a.insertRow(id, child, row.RepoPath)
	}
}

func (a *Controller) insertErrorRow(parent string, err error) {
	row := a.state.rows.addError(parent, err)
	a.ui.treeView.Insert(parent, "end", Id(row.ID), Txt(row.Item.Label), Tags("error"))
}

// reloadRow refetches the children of row, or of its parent for leaves.
func (a *Controller) reloadRow(row *treeRow) {
	if !row.expandable() {
		parent, ok := a.state.rows.get(row.Parent)
		if !ok {
			a.refresh()
			return
		}
		row = parent
	}
	row.Loading = false
	a.loadChildren(row)
}

func (a *Controller) deleteTreeItems(ids ...string) {
	for _, id := range ids {
		if tkutil.TreeItemExists(a.ui.treeView, id) {
			a.ui.treeView.Delete(id)
		}
	}
}

func (a *Controller) selectedRow() (*treeRow, bool) {
	if a.ui.treeView == nil {
		return nil, false
	}
	sel := a.ui.treeView.Selection("")
	if len(sel) == 0 {
		return nil, false
	}
	return a.state.rows.get(sel[0])
}

func (a *Controller) onTreeOpen() {
	row, ok := a.state.rows.get(tkutil.TreeFocus(a.ui.treeView))
	if !ok || !row.expandable() || row.Loaded {
		return
	}
	a.loadChildren(row)
}

func (a *Controller) onTreeSelectionChanged() {
	row, ok := a.selectedRow()
	if !ok {
		return
	}
	switch n := row.Node.(type) {
	case *explorer.CommitNode:
		a.showCommitDetails(row, n)
	case *explorer.ShowAllNode:
		a.setStatus("Press Enter or double-click to load the complete history.")
	default:
		if row.Item.Tooltip != "" {
			a.setStatus(strings.ReplaceAll(row.Item.Tooltip, "\n", " | "))
		} else {
			a.setStatus(row.Item.Label)
		}
	}
}

func (a *Controller) onTreeActivate() {
	row, ok := a.selectedRow()
	if !ok {
		return
	}
	if _, isShowAll := row.Node.(*explorer.ShowAllNode); isShowAll {
		a.activateShowAll(row)
	}
}

// activateShowAll swaps the paged parent of a "Show All" row for its
// unbounded copy and reloads it.
func (a *Controller) activateShowAll(row *treeRow) {
	showAll, ok := row.Node.(*explorer.ShowAllNode)
	if !ok {
		return
	}
	parent, ok := a.state.rows.get(row.Parent)
	if !ok {
		return
	}
	a.state.rows.replaceNode(parent.ID, showAll.Activate())
	a.setStatus(fmt.Sprintf("Loading all commits of %s...", parent.Item.Label))
	parent.Loading = false
	a.loadChildren(parent)
}

func (a *Controller) iconImage(icon *explorer.IconPath) *Img {
	path := a.theme.palette.iconFor(icon)
	if path == "" {
		return nil
	}
	if img, ok := a.state.icons[path]; ok {
		return img
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("load icon", slog.String("path", path), slog.Any("error", err))
		a.state.icons[path] = nil
		return nil
	}
	img := NewPhoto(Data(string(data)))
	a.state.icons[path] = img
	return img
}
