package gui

import (
	"fmt"

	"github.com/thiagokokada/gitk-explorer/internal/explorer"
)

const placeholderLabel = "Loading..."

// treeRow mirrors one Treeview item and the node it renders.
type treeRow struct {
	ID       string
	Parent   string
	Key      string
	RepoPath string
	Node     explorer.Node
	Item     explorer.TreeItem
	Children []string

	Loaded  bool
	Loading bool
	// Failed marks a synthetic row standing for a failed query.
	Failed bool
}

func (r *treeRow) placeholderID() string { return r.ID + ".loading" }

func (r *treeRow) expandable() bool {
	return !r.Failed && r.Item.CollapsibleState != explorer.CollapsibleNone
}

// rowTable tracks the rows currently shown. It knows nothing about Tk so the
// bookkeeping can be tested on its own.
type rowTable struct {
	seq   int
	gen   int
	rows  map[string]*treeRow
	roots []string
}

func newRowTable() *rowTable {
	return &rowTable{rows: make(map[string]*treeRow)}
}

// reset drops every row and bumps the generation so that in-flight loads for
// the old rows are discarded.
func (t *rowTable) reset() {
	t.rows = make(map[string]*treeRow)
	t.roots = nil
	t.gen++
}

func (t *rowTable) get(id string) (*treeRow, bool) {
	r, ok := t.rows[id]
	return r, ok
}

// add registers node under parent. TreeItem failures turn into error rows.
func (t *rowTable) add(parent string, node explorer.Node, repoPath string) *treeRow {
	t.seq++
	row := &treeRow{
		ID:       fmt.Sprintf("n%d", t.seq),
		Parent:   parent,
		RepoPath: repoPath,
		Node:     node,
	}
	if r, ok := node.(interface{ RepoPath() string }); ok && r.RepoPath() != "" {
		row.RepoPath = r.RepoPath()
	}
	item, err := node.TreeItem()
	if err != nil {
		item = errorItem(err)
		row.Failed = true
	}
	row.Item = item
	row.Key = item.Label
	if p, ok := t.rows[parent]; ok {
		row.Key = p.Key + "\x00" + item.Label
		p.Children = append(p.Children, row.ID)
	} else {
		t.roots = append(t.roots, row.ID)
	}
	t.rows[row.ID] = row
	return row
}

// addError registers a synthetic row describing err under parent.
func (t *rowTable) addError(parent string, err error) *treeRow {
	row := t.add(parent, errorNode{err: err}, "")
	row.Failed = true
	return row
}

// dropChildren forgets every descendant of id and returns the ids of its
// direct children.
func (t *rowTable) dropChildren(id string) []string {
	row, ok := t.rows[id]
	if !ok {
		return nil
	}
	direct := row.Children
	row.Children = nil
	row.Loaded = false
	var drop func(ids []string)
	drop = func(ids []string) {
		for _, cid := range ids {
			if c, ok := t.rows[cid]; ok {
				drop(c.Children)
				delete(t.rows, cid)
			}
		}
	}
	drop(direct)
	return direct
}

// replaceNode swaps the node behind id, e.g. for the unbounded copy of a
// paged branch. Its children must be reloaded afterwards.
func (t *rowTable) replaceNode(id string, node explorer.Node) bool {
	row, ok := t.rows[id]
	if !ok {
		return false
	}
	row.Node = node
	return true
}

// openKeys returns the keys of rows whose children are loaded, so a rebuilt
// tree can restore them.
func (t *rowTable) openKeys() map[string]bool {
	keys := make(map[string]bool)
	for _, row := range t.rows {
		if row.Loaded && len(row.Children) > 0 {
			keys[row.Key] = true
		}
	}
	return keys
}

type errorNode struct {
	err error
}

func (n errorNode) Children() ([]explorer.Node, error) { return nil, nil }

func (n errorNode) TreeItem() (explorer.TreeItem, error) { return errorItem(n.err), nil }

func errorItem(err error) explorer.TreeItem {
	return explorer.TreeItem{
		Label:            "Error: " + err.Error(),
		CollapsibleState: explorer.CollapsibleNone,
		ContextValue:     explorer.ResourceMessage,
		Tooltip:          err.Error(),
	}
}
