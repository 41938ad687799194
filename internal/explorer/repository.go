package explorer

import (
	"path/filepath"
	"slices"

	"github.com/thiagokokada/gitk-explorer/internal/git"
)

const (
	noBranchesMessage = "No branches yet"
	noRemotesMessage  = "No remotes configured"
)

// RepositoryNode is the root row for one repository.
type RepositoryNode struct {
	repoPath string
	explorer *Explorer
}

func NewRepositoryNode(repoPath string, explorer *Explorer) *RepositoryNode {
	return &RepositoryNode{repoPath: repoPath, explorer: explorer}
}

func (n *RepositoryNode) RepoPath() string { return n.repoPath }

func (n *RepositoryNode) Children() ([]Node, error) {
	return []Node{
		NewBranchesNode(n.repoPath, n.explorer),
		NewRemotesNode(n.repoPath, n.explorer),
	}, nil
}

func (n *RepositoryNode) TreeItem() (TreeItem, error) {
	label := filepath.Base(filepath.Clean(n.repoPath))
	return TreeItem{
		Label:            label,
		CollapsibleState: CollapsibleExpanded,
		ContextValue:     ResourceRepository,
		IconPath:         n.explorer.iconPath("icon-repo.svg"),
		Tooltip:          n.repoPath,
	}, nil
}

// BranchesNode lists the local branches of a repository.
type BranchesNode struct {
	repoPath string
	explorer *Explorer
}

func NewBranchesNode(repoPath string, explorer *Explorer) *BranchesNode {
	return &BranchesNode{repoPath: repoPath, explorer: explorer}
}

func (n *BranchesNode) Children() ([]Node, error) {
	branches, err := n.explorer.Git.Branches(n.repoPath)
	if err != nil {
		return nil, err
	}
	local := slices.DeleteFunc(slices.Clone(branches), func(b git.Branch) bool { return b.Remote })
	if len(local) == 0 {
		return []Node{NewMessageNode(noBranchesMessage)}, nil
	}
	return n.explorer.branchNodes(n.repoPath, "", local, func(b git.Branch) string { return b.Name }), nil
}

func (n *BranchesNode) TreeItem() (TreeItem, error) {
	return TreeItem{
		Label:            "Branches",
		CollapsibleState: CollapsibleExpanded,
		ContextValue:     ResourceBranches,
		IconPath:         n.explorer.iconPath("icon-branch.svg"),
	}, nil
}

// RemotesNode lists the remotes that have at least one remote-tracking
// branch.
type RemotesNode struct {
	repoPath string
	explorer *Explorer
}

func NewRemotesNode(repoPath string, explorer *Explorer) *RemotesNode {
	return &RemotesNode{repoPath: repoPath, explorer: explorer}
}

func (n *RemotesNode) Children() ([]Node, error) {
	branches, err := n.explorer.Git.RemoteBranches(n.repoPath)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, b := range branches {
		if name := b.RemoteName(); name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return []Node{NewMessageNode(noRemotesMessage)}, nil
	}
	slices.Sort(names)
	children := make([]Node, 0, len(names))
	for _, name := range names {
		children = append(children, NewRemoteNode(name, n.repoPath, n.explorer))
	}
	return children, nil
}

func (n *RemotesNode) TreeItem() (TreeItem, error) {
	return TreeItem{
		Label:            "Remotes",
		CollapsibleState: CollapsibleCollapsed,
		ContextValue:     ResourceRemotes,
		IconPath:         n.explorer.iconPath("icon-remote.svg"),
	}, nil
}

// RemoteNode lists the remote-tracking branches of one remote.
type RemoteNode struct {
	Name string

	repoPath string
	explorer *Explorer
}

func NewRemoteNode(name, repoPath string, explorer *Explorer) *RemoteNode {
	return &RemoteNode{Name: name, repoPath: repoPath, explorer: explorer}
}

func (n *RemoteNode) Children() ([]Node, error) {
	branches, err := n.explorer.Git.RemoteBranches(n.repoPath)
	if err != nil {
		return nil, err
	}
	var remote []git.Branch
	for _, b := range branches {
		if b.RemoteName() != n.Name || b.ShortName() == "HEAD" {
			continue
		}
		remote = append(remote, b)
	}
	if len(remote) == 0 {
		return []Node{NewMessageNode(noBranchesMessage)}, nil
	}
	return n.explorer.branchNodes(n.repoPath, n.Name, remote, git.Branch.ShortName), nil
}

func (n *RemoteNode) TreeItem() (TreeItem, error) {
	return TreeItem{
		Label:            n.Name,
		CollapsibleState: CollapsibleCollapsed,
		ContextValue:     ResourceRemote,
		IconPath:         n.explorer.iconPath("icon-remote.svg"),
	}, nil
}
