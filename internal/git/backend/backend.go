package backend

import (
	"fmt"
	"strings"
)

// Backend abstracts access to repository data.
//
// The native implementation reads the repository with go-git; the CLI
// implementation shells out to the git executable. Callers only see this
// interface so both can be swapped at runtime.
type Backend interface {
	RepoPath() string
	HeadState() (hash string, headName string, ok bool, err error)
	ListBranches() ([]Branch, error)
	// ListRemoteBranches lists remote-tracking branches only, without
	// computing any local tracking state.
	ListRemoteBranches() ([]Branch, error)
	// ResolveRef returns ok=false without error when ref does not name a commit.
	ResolveRef(ref string) (hash string, ok bool, err error)
	StartLogStream(fromHash string) (LogStream, error)

	CommitDiffText(commitHash string, parentHash string) (string, error)
	SwitchBranch(branch string) error
}

type LogStream interface {
	Next() (*Commit, error)
	Close() error
}

type Kind string

const (
	KindNative Kind = "native"
	KindGitCLI Kind = "gitcli"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case "", KindNative:
		return KindNative, nil
	case KindGitCLI, "cli", "git":
		return KindGitCLI, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want %s or %s)", raw, KindNative, KindGitCLI)
	}
}

// Open opens repoPath with the requested backend implementation.
func Open(repoPath string, kind Kind) (Backend, error) {
	switch kind {
	case KindGitCLI:
		return OpenCLI(repoPath)
	case KindNative, "":
		return OpenNative(repoPath)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
