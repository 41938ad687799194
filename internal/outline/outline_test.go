package outline

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagokokada/gitk-explorer/internal/explorer"
)

type stubNode struct {
	item     explorer.TreeItem
	children []explorer.Node
	err      error
	expanded *int
}

func (n *stubNode) TreeItem() (explorer.TreeItem, error) { return n.item, nil }

func (n *stubNode) Children() ([]explorer.Node, error) {
	if n.expanded != nil {
		*n.expanded++
	}
	return n.children, n.err
}

func leaf(label string, ctx explorer.ResourceType) *stubNode {
	return &stubNode{item: explorer.TreeItem{Label: label, ContextValue: ctx}}
}

func folder(label string, children ...explorer.Node) *stubNode {
	return &stubNode{
		item:     explorer.TreeItem{Label: label, CollapsibleState: explorer.CollapsibleCollapsed, ContextValue: explorer.ResourceFolder},
		children: children,
	}
}

func trimmedLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		lines = append(lines, strings.TrimSpace(strings.TrimLeft(line, "│├└╰─ ")))
	}
	return lines
}

func TestPrinterRendersNestedNodes(t *testing.T) {
	root := folder("repo",
		folder("Branches",
			leaf("main", explorer.ResourceCurrentBranch),
			leaf("No commits yet", explorer.ResourceMessage),
		),
	)
	out := New(5).Render(root)
	assert.Equal(t, []string{"repo", "Branches", "main", "No commits yet"}, trimmedLines(out))
}

func TestPrinterStopsAtDepth(t *testing.T) {
	var expanded int
	deep := folder("deep", leaf("hidden", explorer.ResourceCommit))
	deep.expanded = &expanded
	root := folder("repo", folder("Branches", deep))

	out := New(2).Render(root)
	assert.Equal(t, []string{"repo", "Branches", "deep"}, trimmedLines(out))
	assert.Zero(t, expanded)
}

func TestPrinterShowsErrorsInPlace(t *testing.T) {
	broken := folder("Remotes")
	broken.err = errors.New("list branches: boom")
	root := folder("repo", broken, leaf("after", explorer.ResourceMessage))

	out := New(3).Render(root)
	assert.Equal(t, []string{"repo", "Remotes", "error: list branches: boom", "after"}, trimmedLines(out))
}

func TestPrinterMultipleRoots(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, New(1).Fprint(&sb, leaf("a", explorer.ResourceMessage), leaf("b", explorer.ResourceMessage)))
	assert.Equal(t, "a\nb\n", sb.String())
}

func TestBranchStyle(t *testing.T) {
	assert.Equal(t, divergedStyle.GetForeground(), branchStyle(&explorer.IconPath{Dark: "/x/icon-branch-yellow.svg"}).GetForeground())
	assert.Equal(t, aheadStyle.GetForeground(), branchStyle(&explorer.IconPath{Dark: "/x/icon-branch-green.svg"}).GetForeground())
	assert.Equal(t, behindStyle.GetForeground(), branchStyle(&explorer.IconPath{Dark: "/x/icon-branch-red.svg"}).GetForeground())
	assert.Equal(t, lipgloss.NoColor{}, branchStyle(nil).GetForeground())
}
