// Package explorer models the repository sidebar as a tree of lazily
// expanded nodes. Nodes are immutable: hosts drop and rebuild them on every
// refresh.
package explorer

import (
	"fmt"
	"path"
	"strings"

	"github.com/thiagokokada/gitk-explorer/internal/git"
)

type BranchesLayout int

const (
	// BranchesLayoutTree groups branches into folders by path segment.
	BranchesLayoutTree BranchesLayout = iota
	// BranchesLayoutList shows every branch by its full name.
	BranchesLayoutList
)

func (l BranchesLayout) String() string {
	switch l {
	case BranchesLayoutList:
		return "list"
	default:
		return "tree"
	}
}

func ParseBranchesLayout(raw string) (BranchesLayout, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", BranchesLayoutTree.String():
		return BranchesLayoutTree, nil
	case BranchesLayoutList.String():
		return BranchesLayoutList, nil
	default:
		return BranchesLayoutTree, fmt.Errorf("unknown branches layout %q (want tree or list)", raw)
	}
}

type BranchesConfig struct {
	Layout BranchesLayout
}

// Config is the display configuration shared read-only by every node.
type Config struct {
	Branches           BranchesConfig
	ShowTrackingBranch bool
	// PageSize bounds commit lists under a branch. Zero defers to the git
	// service default.
	PageSize int
}

// GitService is the slice of the git data service the nodes query.
type GitService interface {
	Branches(repoPath string) ([]git.Branch, error)
	// RemoteBranches lists remote-tracking branches without the local
	// ahead/behind state Branches computes.
	RemoteBranches(repoPath string) ([]git.Branch, error)
	Log(repoPath string, opts git.LogOptions) (*git.Log, error)
}

// AssetResolver turns a path relative to the installed assets into an
// absolute one.
type AssetResolver interface {
	AsAbsolutePath(relativePath string) string
}

// Explorer is the context injected into every node.
type Explorer struct {
	Config Config
	Git    GitService
	Assets AssetResolver
}

func New(cfg Config, svc GitService, assets AssetResolver) *Explorer {
	return &Explorer{Config: cfg, Git: svc, Assets: assets}
}

// Roots returns one RepositoryNode per repository path.
func (e *Explorer) Roots(repoPaths ...string) []Node {
	roots := make([]Node, 0, len(repoPaths))
	for _, p := range repoPaths {
		roots = append(roots, NewRepositoryNode(p, e))
	}
	return roots
}

func (e *Explorer) iconPath(file string) *IconPath {
	resolve := func(rel string) string {
		if e.Assets == nil {
			return rel
		}
		return e.Assets.AsAbsolutePath(rel)
	}
	return &IconPath{
		Dark:  resolve(path.Join("images", "dark", file)),
		Light: resolve(path.Join("images", "light", file)),
	}
}
