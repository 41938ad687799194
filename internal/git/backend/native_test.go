package backend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func initTestRepo(t *testing.T) (string, *gitlib.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gitlib.PlainInitWithOptions(dir, &gitlib.PlainInitOptions{
		InitOptions: gitlib.InitOptions{DefaultBranch: plumbing.Main},
	})
	require.NoError(t, err, "init repo")
	return dir, repo
}

func commitEmpty(t *testing.T, repo *gitlib.Repository, msg string, offset int) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	hash, err := wt.Commit(msg, &gitlib.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  "Alice",
			Email: "alice@example.com",
			When:  testEpoch.Add(time.Duration(offset) * time.Minute),
		},
	})
	require.NoError(t, err, "commit %q", msg)
	return hash
}

func setRef(t *testing.T, repo *gitlib.Repository, name plumbing.ReferenceName, hash plumbing.Hash) {
	t.Helper()
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(name, hash)), "set %s", name)
}

func trackOrigin(t *testing.T, repo *gitlib.Repository, branch string) {
	t.Helper()
	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.Remotes["origin"] = &config.RemoteConfig{Name: "origin", URLs: []string{"https://example.com/repo.git"}}
	cfg.Branches[branch] = &config.Branch{Name: branch, Remote: "origin", Merge: plumbing.NewBranchReferenceName(branch)}
	require.NoError(t, repo.SetConfig(cfg))
}

func findBranch(branches []Branch, name string) (Branch, bool) {
	for _, b := range branches {
		if b.Name == name {
			return b, true
		}
	}
	return Branch{}, false
}

func setOriginHead(t *testing.T, repo *gitlib.Repository) {
	t.Helper()
	require.NoError(t, repo.Storer.SetReference(plumbing.NewSymbolicReference(
		plumbing.NewRemoteReferenceName("origin", "HEAD"),
		plumbing.NewRemoteReferenceName("origin", "main"),
	)))
}

func branchNames(branches []Branch) string {
	names := make([]string, 0, len(branches))
	for _, br := range branches {
		names = append(names, br.Name)
	}
	return strings.Join(names, ",")
}

func TestNativeListBranches_TrackingAndDivergence(t *testing.T) {
	dir, repo := initTestRepo(t)
	base := commitEmpty(t, repo, "base", 0)
	upstreamOnly := commitEmpty(t, repo, "upstream only", 1)
	setRef(t, repo, plumbing.NewRemoteReferenceName("origin", "main"), upstreamOnly)
	setRef(t, repo, plumbing.NewBranchReferenceName("main"), base)
	commitEmpty(t, repo, "local only", 2)
	setRef(t, repo, plumbing.NewBranchReferenceName("feature/x"), base)
	setOriginHead(t, repo)
	trackOrigin(t, repo, "main")

	b, err := OpenNative(dir)
	require.NoError(t, err)
	branches, err := b.ListBranches()
	require.NoError(t, err)
	assert.Equal(t, "feature/x,main,origin/main", branchNames(branches))

	main, ok := findBranch(branches, "main")
	require.True(t, ok)
	assert.True(t, main.Current)
	assert.False(t, main.Remote)
	assert.Equal(t, "origin/main", main.Tracking)
	assert.Equal(t, BranchState{Ahead: 1, Behind: 1}, main.State)

	feature, ok := findBranch(branches, "feature/x")
	require.True(t, ok)
	assert.False(t, feature.Current)
	assert.Empty(t, feature.Tracking)
	assert.Equal(t, "x", feature.Basename())

	remote, ok := findBranch(branches, "origin/main")
	require.True(t, ok)
	assert.True(t, remote.Remote)
	assert.Equal(t, "origin", remote.RemoteName())
	assert.Equal(t, "main", remote.ShortName())
}

func TestNativeListBranches_GoneUpstream(t *testing.T) {
	dir, repo := initTestRepo(t)
	commitEmpty(t, repo, "base", 0)
	trackOrigin(t, repo, "main")

	b, err := OpenNative(dir)
	require.NoError(t, err)
	branches, err := b.ListBranches()
	require.NoError(t, err)
	main, ok := findBranch(branches, "main")
	require.True(t, ok, "main missing from %+v", branches)
	assert.Equal(t, "origin/main", main.Tracking)
	assert.Equal(t, BranchState{}, main.State)
}

func TestNativeListBranches_DivergenceStopsAtMergeBase(t *testing.T) {
	dir, repo := initTestRepo(t)
	root := commitEmpty(t, repo, "root", 0)
	var base plumbing.Hash
	for i := 1; i < 60; i++ {
		base = commitEmpty(t, repo, fmt.Sprintf("shared %d", i), i)
	}
	upstreamFirst := commitEmpty(t, repo, "upstream 1", 60)
	upstreamTip := commitEmpty(t, repo, "upstream 2", 61)
	setRef(t, repo, plumbing.NewRemoteReferenceName("origin", "main"), upstreamTip)
	setRef(t, repo, plumbing.NewBranchReferenceName("main"), base)
	localFirst := commitEmpty(t, repo, "local 1", 62)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Commit("merge upstream 1", &gitlib.CommitOptions{
		AllowEmptyCommits: true,
		Parents:           []plumbing.Hash{localFirst, upstreamFirst},
		Author: &object.Signature{
			Name:  "Alice",
			Email: "alice@example.com",
			When:  testEpoch.Add(63 * time.Minute),
		},
	})
	require.NoError(t, err, "merge commit")
	trackOrigin(t, repo, "main")

	// Drop the root commit: counting divergence must not need history below
	// the merge base.
	rootHex := root.String()
	require.NoError(t, os.Remove(filepath.Join(dir, ".git", "objects", rootHex[:2], rootHex[2:])))

	b, err := OpenNative(dir)
	require.NoError(t, err)
	branches, err := b.ListBranches()
	require.NoError(t, err)
	main, ok := findBranch(branches, "main")
	require.True(t, ok, "main missing from %+v", branches)
	assert.Equal(t, BranchState{Ahead: 2, Behind: 1}, main.State)
}

func TestNativeListRemoteBranches(t *testing.T) {
	dir, repo := initTestRepo(t)
	base := commitEmpty(t, repo, "base", 0)
	setRef(t, repo, plumbing.NewRemoteReferenceName("origin", "main"), base)
	setRef(t, repo, plumbing.NewRemoteReferenceName("upstream", "dev"), base)
	setOriginHead(t, repo)
	trackOrigin(t, repo, "main")

	b, err := OpenNative(dir)
	require.NoError(t, err)
	branches, err := b.ListRemoteBranches()
	require.NoError(t, err)
	for _, br := range branches {
		assert.True(t, br.Remote, "local branch %q listed", br.Name)
	}
	assert.Equal(t, "origin/main,upstream/dev", branchNames(branches))
}

func TestNativeResolveRefAndLogStream(t *testing.T) {
	dir, repo := initTestRepo(t)
	first := commitEmpty(t, repo, "first", 0)
	second := commitEmpty(t, repo, "second\n\nbody", 1)

	b, err := OpenNative(dir)
	require.NoError(t, err)
	hash, ok, err := b.ResolveRef("main")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.String(), hash)
	_, ok, err = b.ResolveRef("does-not-exist")
	require.NoError(t, err)
	assert.False(t, ok)

	stream, err := b.StartLogStream(hash)
	require.NoError(t, err)
	defer stream.Close()
	c, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, second.String(), c.Hash)
	assert.Equal(t, []string{first.String()}, c.ParentHashes)
	assert.Equal(t, "Alice", c.Author.Name)
	assert.True(t, strings.HasPrefix(c.Message, "second"), "message = %q", c.Message)
	_, err = stream.Next()
	require.NoError(t, err)
	_, err = stream.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNativeHeadState_UnbornRepository(t *testing.T) {
	dir, _ := initTestRepo(t)
	b, err := OpenNative(dir)
	require.NoError(t, err)
	_, _, ok, err := b.HeadState()
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = b.ResolveRef("main")
	require.NoError(t, err)
	assert.False(t, ok, "unborn main")
}
