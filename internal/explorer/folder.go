package explorer

import (
	"cmp"
	"path"
	"slices"
	"strings"

	"github.com/thiagokokada/gitk-explorer/internal/git"
)

// BranchFolderNode groups branches sharing a path prefix in tree layout.
type BranchFolderNode struct {
	// Name is the folder's own segment, Path the full prefix.
	Name string
	Path string

	children []Node
}

func (n *BranchFolderNode) Children() ([]Node, error) {
	return slices.Clone(n.children), nil
}

func (n *BranchFolderNode) TreeItem() (TreeItem, error) {
	return TreeItem{
		Label:            n.Name,
		CollapsibleState: CollapsibleCollapsed,
		ContextValue:     ResourceFolder,
		Tooltip:          n.Path,
	}, nil
}

type branchFolder struct {
	name     string
	path     string
	folders  map[string]*branchFolder
	branches []git.Branch
}

func newBranchFolder(name, path string) *branchFolder {
	return &branchFolder{name: name, path: path, folders: map[string]*branchFolder{}}
}

func (f *branchFolder) insert(b git.Branch, segments []string) {
	if len(segments) == 1 {
		f.branches = append(f.branches, b)
		return
	}
	sub, ok := f.folders[segments[0]]
	if !ok {
		sub = newBranchFolder(segments[0], path.Join(f.path, segments[0]))
		f.folders[segments[0]] = sub
	}
	sub.insert(b, segments[1:])
}

func (f *branchFolder) nodes(repoPath string, e *Explorer) []Node {
	folders := make([]*branchFolder, 0, len(f.folders))
	for _, sub := range f.folders {
		folders = append(folders, sub)
	}
	slices.SortFunc(folders, func(a, b *branchFolder) int { return cmp.Compare(a.name, b.name) })
	slices.SortStableFunc(f.branches, func(a, b git.Branch) int { return cmp.Compare(a.Name, b.Name) })

	out := make([]Node, 0, len(folders)+len(f.branches))
	for _, sub := range folders {
		out = append(out, &BranchFolderNode{Name: sub.name, Path: sub.path, children: sub.nodes(repoPath, e)})
	}
	for _, b := range f.branches {
		out = append(out, NewBranchNode(b, repoPath, e))
	}
	return out
}

// branchNodes builds the rows for branches. nameOf gives the name that is
// split into folders; prefix roots the folder paths (the remote name for
// remote branches).
func (e *Explorer) branchNodes(repoPath, prefix string, branches []git.Branch, nameOf func(git.Branch) string) []Node {
	if e.Config.Branches.Layout == BranchesLayoutList {
		out := make([]Node, 0, len(branches))
		for _, b := range branches {
			out = append(out, NewBranchNode(b, repoPath, e))
		}
		return out
	}
	root := newBranchFolder("", prefix)
	for _, b := range branches {
		name := nameOf(b)
		if hasWhitespace(name) {
			root.branches = append(root.branches, b)
			continue
		}
		root.insert(b, strings.Split(name, "/"))
	}
	return root.nodes(repoPath, e)
}
