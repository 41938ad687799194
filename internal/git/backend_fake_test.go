package git

import (
	"errors"
	"fmt"
	"io"

	gitbackend "github.com/thiagokokada/gitk-explorer/internal/git/backend"
)

type fakeBackend struct {
	repoPath string

	headStateFunc      func() (hash string, headName string, ok bool, err error)
	listBranchesFunc   func() ([]gitbackend.Branch, error)
	listRemotesFunc    func() ([]gitbackend.Branch, error)
	resolveRefFunc     func(ref string) (string, bool, error)
	startLogStreamFunc func(fromHash string) (gitbackend.LogStream, error)
	commitDiffTextFunc func(commitHash string, parentHash string) (string, error)
	switchBranchFunc   func(branch string) error

	lastResolvedRef  string
	lastCommitHash   string
	lastParentHash   string
	lastSwitchBranch string
}

func (f *fakeBackend) RepoPath() string { return f.repoPath }

func (f *fakeBackend) HeadState() (hash string, headName string, ok bool, err error) {
	if f.headStateFunc != nil {
		return f.headStateFunc()
	}
	return "", "", false, errors.New("unexpected HeadState call")
}

func (f *fakeBackend) ListBranches() ([]gitbackend.Branch, error) {
	if f.listBranchesFunc != nil {
		return f.listBranchesFunc()
	}
	return nil, errors.New("unexpected ListBranches call")
}

func (f *fakeBackend) ListRemoteBranches() ([]gitbackend.Branch, error) {
	if f.listRemotesFunc != nil {
		return f.listRemotesFunc()
	}
	return nil, errors.New("unexpected ListRemoteBranches call")
}

func (f *fakeBackend) ResolveRef(ref string) (string, bool, error) {
	f.lastResolvedRef = ref
	if f.resolveRefFunc != nil {
		return f.resolveRefFunc(ref)
	}
	return "", false, errors.New("unexpected ResolveRef call")
}

func (f *fakeBackend) StartLogStream(fromHash string) (gitbackend.LogStream, error) {
	if f.startLogStreamFunc != nil {
		return f.startLogStreamFunc(fromHash)
	}
	return nil, errors.New("unexpected StartLogStream call")
}

func (f *fakeBackend) CommitDiffText(commitHash string, parentHash string) (string, error) {
	f.lastCommitHash = commitHash
	f.lastParentHash = parentHash
	if f.commitDiffTextFunc != nil {
		return f.commitDiffTextFunc(commitHash, parentHash)
	}
	return "", errors.New("unexpected CommitDiffText call")
}

func (f *fakeBackend) SwitchBranch(branch string) error {
	f.lastSwitchBranch = branch
	if f.switchBranchFunc != nil {
		return f.switchBranchFunc(branch)
	}
	return errors.New("unexpected SwitchBranch call")
}

// sliceLogStream replays commits and records how far it was read.
type sliceLogStream struct {
	commits []*Commit
	pos     int
	failAt  int // 1-based position that fails; 0 disables
	closed  bool
}

func newSliceLogStream(n int) *sliceLogStream {
	s := &sliceLogStream{}
	for i := range n {
		s.commits = append(s.commits, &Commit{Hash: fmt.Sprintf("%040d", n-i), Message: fmt.Sprintf("commit %d", n-i)})
	}
	return s
}

func (s *sliceLogStream) Next() (*Commit, error) {
	if s.failAt > 0 && s.pos+1 == s.failAt {
		return nil, errors.New("corrupt object")
	}
	if s.pos >= len(s.commits) {
		return nil, io.EOF
	}
	c := s.commits[s.pos]
	s.pos++
	return c, nil
}

func (s *sliceLogStream) Close() error {
	s.closed = true
	return nil
}
