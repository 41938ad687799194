package git

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitbackend "github.com/thiagokokada/gitk-explorer/internal/git/backend"
)

func logBackend(stream *sliceLogStream) *fakeBackend {
	return &fakeBackend{
		repoPath: "repo",
		resolveRefFunc: func(ref string) (string, bool, error) {
			return "head", true, nil
		},
		startLogStreamFunc: func(fromHash string) (gitbackend.LogStream, error) {
			return stream, nil
		},
	}
}

func TestLog_TruncatesWithReadAhead(t *testing.T) {
	stream := newSliceLogStream(5)
	svc := NewWithBackend(logBackend(stream))

	log, err := svc.Log(LogOptions{MaxCount: 3, Ref: "feature"})
	require.NoError(t, err)
	require.Len(t, log.Commits, 3)
	assert.True(t, log.Truncated)
	assert.Equal(t, stream.commits[0].Hash, log.Commits[0].Hash)
	assert.Equal(t, stream.commits[2].Hash, log.Commits[2].Hash)
	assert.Equal(t, "feature", log.Ref)
	assert.Equal(t, 3, log.MaxCount)
	assert.True(t, stream.closed, "stream closed")
}

func TestLog_ExactPageIsNotTruncated(t *testing.T) {
	svc := NewWithBackend(logBackend(newSliceLogStream(3)))

	log, err := svc.Log(LogOptions{MaxCount: 3})
	require.NoError(t, err)
	assert.Len(t, log.Commits, 3)
	assert.False(t, log.Truncated)
}

func TestLog_UnboundedAndDefaultLimit(t *testing.T) {
	svc := NewWithBackend(logBackend(newSliceLogStream(7)))
	log, err := svc.Log(LogOptions{MaxCount: -1})
	require.NoError(t, err)
	assert.Len(t, log.Commits, 7)
	assert.False(t, log.Truncated)
	assert.Zero(t, log.MaxCount)

	svc = NewWithBackend(logBackend(newSliceLogStream(7)))
	svc.SetDefaultLimit(2)
	log, err = svc.Log(LogOptions{})
	require.NoError(t, err)
	assert.Len(t, log.Commits, 2)
	assert.True(t, log.Truncated)
}

func TestLog_EmptyRefDefaultsToHead(t *testing.T) {
	f := logBackend(newSliceLogStream(1))
	svc := NewWithBackend(f)
	_, err := svc.Log(LogOptions{})
	require.NoError(t, err)
	assert.Equal(t, "HEAD", f.lastResolvedRef)
}

func TestLog_UnknownRefIsSoftEmpty(t *testing.T) {
	svc := NewWithBackend(&fakeBackend{
		repoPath: "repo",
		resolveRefFunc: func(ref string) (string, bool, error) {
			return "", false, nil
		},
	})
	log, err := svc.Log(LogOptions{Ref: "nope"})
	require.NoError(t, err)
	assert.Nil(t, log)
}

func TestLog_PropagatesFailures(t *testing.T) {
	svc := NewWithBackend(&fakeBackend{
		repoPath: "repo",
		resolveRefFunc: func(ref string) (string, bool, error) {
			return "", false, errors.New("bad packfile")
		},
	})
	_, err := svc.Log(LogOptions{Ref: "main"})
	assert.ErrorContains(t, err, "bad packfile")

	stream := newSliceLogStream(4)
	stream.failAt = 2
	svc = NewWithBackend(logBackend(stream))
	_, err = svc.Log(LogOptions{MaxCount: 10})
	assert.ErrorContains(t, err, "corrupt object")

	stream = newSliceLogStream(4)
	stream.failAt = 3
	svc = NewWithBackend(logBackend(stream))
	_, err = svc.Log(LogOptions{MaxCount: 2})
	assert.Error(t, err, "read-ahead error")
}

func TestLog_RequiresRepository(t *testing.T) {
	svc := NewWithBackend(&fakeBackend{})
	_, err := svc.Log(LogOptions{})
	assert.Error(t, err)
}

func TestBranches_WrapsBackendError(t *testing.T) {
	svc := NewWithBackend(&fakeBackend{
		repoPath: "repo",
		listBranchesFunc: func() ([]gitbackend.Branch, error) {
			return nil, errors.New("boom")
		},
	})
	_, err := svc.Branches()
	assert.ErrorContains(t, err, "list branches: boom")
}

func TestRemoteBranches_SkipsLocalTrackingState(t *testing.T) {
	svc := NewWithBackend(&fakeBackend{
		repoPath: "repo",
		listRemotesFunc: func() ([]gitbackend.Branch, error) {
			return []gitbackend.Branch{{Name: "origin/main", Remote: true}}, nil
		},
	})
	branches, err := svc.RemoteBranches()
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, "origin/main", branches[0].Name)

	failing := NewWithBackend(&fakeBackend{
		repoPath: "repo",
		listRemotesFunc: func() ([]gitbackend.Branch, error) {
			return nil, errors.New("boom")
		},
	})
	_, err = failing.RemoteBranches()
	assert.ErrorContains(t, err, "list remote branches: boom")
}

func TestCommitDiff_UsesFirstParent(t *testing.T) {
	f := &fakeBackend{
		repoPath: "repo",
		commitDiffTextFunc: func(commitHash string, parentHash string) (string, error) {
			return "diff", nil
		},
	}
	svc := NewWithBackend(f)
	got, err := svc.CommitDiff(&Commit{Hash: "c", ParentHashes: []string{"p1", "p2"}})
	require.NoError(t, err)
	assert.Equal(t, "diff", got)
	assert.Equal(t, "c", f.lastCommitHash)
	assert.Equal(t, "p1", f.lastParentHash)

	_, err = svc.CommitDiff(&Commit{Hash: "root"})
	require.NoError(t, err)
	assert.Empty(t, f.lastParentHash, "root commit has no parent")
}

func TestSwitchBranch_CallsBackend(t *testing.T) {
	f := &fakeBackend{
		repoPath:         "repo",
		switchBranchFunc: func(branch string) error { return nil },
	}
	svc := NewWithBackend(f)
	require.NoError(t, svc.SwitchBranch(" feature "))
	assert.Equal(t, "feature", f.lastSwitchBranch)
	assert.Error(t, svc.SwitchBranch("  "), "empty branch")
}
