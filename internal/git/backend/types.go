package backend

import (
	"strings"
	"time"
)

type Signature struct {
	Name  string
	Email string
	When  time.Time
}

type Commit struct {
	Hash         string
	ParentHashes []string
	Author       Signature
	Committer    Signature
	Message      string
}

// BranchState holds the divergence between a branch and its upstream.
type BranchState struct {
	Ahead  int
	Behind int
}

type Branch struct {
	Name    string // short name: main, feature/x, origin/main
	Hash    string
	Current bool
	Remote  bool
	// Tracking is the short upstream name (origin/main); empty when the branch
	// has no upstream configured.
	Tracking string
	State    BranchState
}

// Basename returns the last path segment of the branch name.
func (b Branch) Basename() string {
	if idx := strings.LastIndex(b.Name, "/"); idx >= 0 {
		return b.Name[idx+1:]
	}
	return b.Name
}

// RemoteName returns the remote prefix of a remote branch (origin for
// origin/main). It is empty for local branches.
func (b Branch) RemoteName() string {
	if !b.Remote {
		return ""
	}
	name, _, ok := strings.Cut(b.Name, "/")
	if !ok {
		return ""
	}
	return name
}

// ShortName strips the remote prefix from remote branches.
func (b Branch) ShortName() string {
	if !b.Remote {
		return b.Name
	}
	if _, rest, ok := strings.Cut(b.Name, "/"); ok {
		return rest
	}
	return b.Name
}
