package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagokokada/gitk-explorer/internal/git"
)

func TestCommitNodeTreeItem(t *testing.T) {
	c := makeCommits(1)[0]
	e := newTestExplorer(Config{}, &fakeGit{})

	n := NewCommitNode(c, &git.Branch{Name: "dev"}, e)
	item, err := n.TreeItem()
	require.NoError(t, err)
	assert.Equal(t, "commit 1 • Alice, 2024-03-01", item.Label)
	assert.Equal(t, ResourceCommit, item.ContextValue)
	assert.Equal(t, CollapsibleNone, item.CollapsibleState)
	assert.Equal(t, "/ext/images/dark/icon-commit.svg", item.IconPath.Dark)
	assert.Contains(t, item.Tooltip, "commit "+c.Hash)
	assert.Equal(t, c.Hash, n.Ref())

	current := NewCommitNode(c, &git.Branch{Name: "main", Current: true}, e)
	item, err = current.TreeItem()
	require.NoError(t, err)
	assert.Equal(t, ResourceCommitOnCurrentBranch, item.ContextValue)
	assert.True(t, item.ContextValue.IsCommit())

	children, err := n.Children()
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestCommitNodeEmptyMessage(t *testing.T) {
	c := &git.Commit{Hash: "abc", Author: git.Signature{Name: "Bob"}}
	item, err := NewCommitNode(c, nil, newTestExplorer(Config{}, &fakeGit{})).TreeItem()
	require.NoError(t, err)
	assert.Equal(t, "(no commit message) • Bob", item.Label)
	assert.Equal(t, ResourceCommit, item.ContextValue)
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "1 commit", pluralize(1, "commit"))
	assert.Equal(t, "0 commits", pluralize(0, "commit"))
	assert.Equal(t, "12 commits", pluralize(12, "commit"))
}
