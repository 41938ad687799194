package explorer

import (
	"fmt"
	"strconv"

	"github.com/thiagokokada/gitk-explorer/internal/git"
)

const commitDateFormat = "2006-01-02"

// CommitNode is a leaf row for one commit of a branch.
type CommitNode struct {
	Commit *git.Commit
	// Branch is the branch whose history listed the commit, when known.
	Branch *git.Branch

	explorer *Explorer
}

func NewCommitNode(c *git.Commit, branch *git.Branch, explorer *Explorer) *CommitNode {
	return &CommitNode{Commit: c, Branch: branch, explorer: explorer}
}

func (n *CommitNode) Ref() string { return n.Commit.Hash }

func (n *CommitNode) Children() ([]Node, error) { return nil, nil }

func (n *CommitNode) Label() string {
	c := n.Commit
	summary := git.Summary(c)
	if summary == "" {
		summary = "(no commit message)"
	}
	when := c.Author.When
	if when.IsZero() {
		when = c.Committer.When
	}
	if when.IsZero() {
		return fmt.Sprintf("%s %s %s", summary, GlyphDot, c.Author.Name)
	}
	return fmt.Sprintf("%s %s %s, %s", summary, GlyphDot, c.Author.Name, when.Format(commitDateFormat))
}

func (n *CommitNode) TreeItem() (TreeItem, error) {
	ctx := ResourceCommit
	if n.Branch != nil && n.Branch.Current {
		ctx = ResourceCommitOnCurrentBranch
	}
	return TreeItem{
		Label:            n.Label(),
		CollapsibleState: CollapsibleNone,
		ContextValue:     ctx,
		IconPath:         n.explorer.iconPath("icon-commit.svg"),
		Tooltip:          git.FormatCommitHeader(n.Commit),
	}, nil
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
