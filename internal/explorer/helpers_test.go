package explorer

import (
	"fmt"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thiagokokada/gitk-explorer/internal/git"
)

type fakeGit struct {
	branches    []git.Branch
	branchesErr error
	logs        map[string]*git.Log
	logErr      error
	calls       []git.LogOptions

	branchCalls int
	remoteCalls int
}

func (f *fakeGit) Branches(string) ([]git.Branch, error) {
	f.branchCalls++
	return f.branches, f.branchesErr
}

func (f *fakeGit) RemoteBranches(string) ([]git.Branch, error) {
	f.remoteCalls++
	if f.branchesErr != nil {
		return nil, f.branchesErr
	}
	var remote []git.Branch
	for _, b := range f.branches {
		if b.Remote {
			remote = append(remote, b)
		}
	}
	return remote, nil
}

func (f *fakeGit) Log(_ string, opts git.LogOptions) (*git.Log, error) {
	f.calls = append(f.calls, opts)
	if f.logErr != nil {
		return nil, f.logErr
	}
	return f.logs[opts.Ref], nil
}

type rootAssets string

func (r rootAssets) AsAbsolutePath(rel string) string {
	return path.Join(string(r), rel)
}

func newTestExplorer(cfg Config, svc *fakeGit) *Explorer {
	return New(cfg, svc, rootAssets("/ext"))
}

func makeCommits(n int) []*git.Commit {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	commits := make([]*git.Commit, n)
	for i := range commits {
		commits[i] = &git.Commit{
			Hash:    fmt.Sprintf("%040d", i+1),
			Author:  git.Signature{Name: "Alice", Email: "alice@example.com", When: base.Add(-time.Duration(i) * time.Hour)},
			Message: fmt.Sprintf("commit %d\n\nbody", i+1),
		}
	}
	return commits
}

func labels(t *testing.T, nodes []Node) []string {
	t.Helper()
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		item, err := n.TreeItem()
		require.NoError(t, err)
		out = append(out, item.Label)
	}
	return out
}
