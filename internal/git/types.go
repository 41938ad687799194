package git

import gitbackend "github.com/thiagokokada/gitk-explorer/internal/git/backend"

type (
	Signature   = gitbackend.Signature
	Commit      = gitbackend.Commit
	Branch      = gitbackend.Branch
	BranchState = gitbackend.BranchState
)

// LogOptions bounds a log query.
type LogOptions struct {
	// MaxCount caps the number of commits. Zero selects the service default
	// page size; a negative value reads the whole history.
	MaxCount int
	// Ref is any revision git understands. Empty means HEAD.
	Ref string
}

// Log is one page of history, newest first.
type Log struct {
	RepoPath string
	Ref      string
	Commits  []*Commit
	// MaxCount is the effective bound used for the query, zero when unbounded.
	MaxCount int
	// Truncated reports that more commits exist beyond MaxCount.
	Truncated bool
}
