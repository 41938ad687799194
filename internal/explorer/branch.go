package explorer

import (
	"strings"
	"unicode"

	"github.com/thiagokokada/gitk-explorer/internal/git"
)

// Unbounded as a page size lists the whole history.
const Unbounded = -1

const noCommitsMessage = "No commits yet"

// BranchNode is one branch row. Its children are the branch's commits,
// newest first, one page at a time.
type BranchNode struct {
	Branch git.Branch

	repoPath string
	explorer *Explorer
	maxCount int
}

func NewBranchNode(branch git.Branch, repoPath string, explorer *Explorer) *BranchNode {
	return &BranchNode{
		Branch:   branch,
		repoPath: repoPath,
		explorer: explorer,
		maxCount: explorer.Config.PageSize,
	}
}

func (n *BranchNode) RepoPath() string { return n.repoPath }

// Ref returns the full branch name.
func (n *BranchNode) Ref() string { return n.Branch.Name }

func (n *BranchNode) Current() bool { return n.Branch.Current }

// MaxCount is the page size passed to the log query: zero for the service
// default, Unbounded for everything.
func (n *BranchNode) MaxCount() int { return n.maxCount }

// Label is the full name in list layout. Tree layout shows the basename,
// unless the name has whitespace and so no reliable path segments.
func (n *BranchNode) Label() string {
	name := n.Branch.Name
	if n.explorer.Config.Branches.Layout == BranchesLayoutList {
		return name
	}
	if hasWhitespace(name) {
		return name
	}
	return n.Branch.Basename()
}

func hasWhitespace(name string) bool {
	return strings.IndexFunc(name, isWhitespace) >= 0
}

// isWhitespace matches the Unicode White_Space set plus U+FEFF and minus
// U+0085.
func isWhitespace(r rune) bool {
	switch r {
	case '\ufeff':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

func (n *BranchNode) ShowAll() Node {
	clone := *n
	clone.maxCount = Unbounded
	return &clone
}

// Children lists the branch's commits. Git failures are returned as is; a
// branch without reachable history yields a single message row.
func (n *BranchNode) Children() ([]Node, error) {
	log, err := n.explorer.Git.Log(n.repoPath, git.LogOptions{MaxCount: n.maxCount, Ref: n.Branch.Name})
	if err != nil {
		return nil, err
	}
	if log == nil {
		return []Node{NewMessageNode(noCommitsMessage)}, nil
	}
	children := make([]Node, 0, len(log.Commits)+1)
	for _, c := range log.Commits {
		children = append(children, NewCommitNode(c, &n.Branch, n.explorer))
	}
	if log.Truncated {
		children = append(children, NewShowAllNode("Show All Commits", n, n.explorer))
	}
	return children, nil
}

func (n *BranchNode) TreeItem() (TreeItem, error) {
	name := n.Label()
	b := n.Branch
	if !b.Remote && b.Tracking != "" && n.explorer.Config.ShowTrackingBranch {
		name += " " + GlyphSpace + GlyphArrowLeftRight + GlyphSpace + " " + b.Tracking
	}
	if b.Current {
		name = GlyphCheck + " " + GlyphSpace + name
	}
	return TreeItem{
		Label:            name,
		CollapsibleState: CollapsibleCollapsed,
		ContextValue:     branchContextValue(b),
		IconPath:         n.explorer.iconPath("icon-branch" + branchIconSuffix(b) + ".svg"),
		Tooltip:          branchTooltip(b),
	}, nil
}

func branchContextValue(b git.Branch) ResourceType {
	switch {
	case b.Remote:
		return ResourceRemoteBranch
	case b.Current && b.Tracking != "":
		return ResourceCurrentBranchWithTracking
	case b.Current:
		return ResourceCurrentBranch
	case b.Tracking != "":
		return ResourceBranchWithTracking
	default:
		return ResourceBranch
	}
}

// branchIconSuffix colours the icon by divergence from the upstream.
func branchIconSuffix(b git.Branch) string {
	if b.Tracking == "" {
		return ""
	}
	switch {
	case b.State.Ahead > 0 && b.State.Behind > 0:
		return "-yellow"
	case b.State.Ahead > 0:
		return "-green"
	case b.State.Behind > 0:
		return "-red"
	default:
		return ""
	}
}

func branchTooltip(b git.Branch) string {
	var sb strings.Builder
	sb.WriteString(b.Name)
	if b.Current {
		sb.WriteString(" (current)")
	}
	if b.Tracking != "" {
		sb.WriteString("\ntracking ")
		sb.WriteString(b.Tracking)
		if b.State.Ahead > 0 || b.State.Behind > 0 {
			sb.WriteString(" (")
			sb.WriteString(strings.Join(divergence(b.State), ", "))
			sb.WriteString(")")
		}
	}
	return sb.String()
}

func divergence(s git.BranchState) []string {
	var parts []string
	if s.Ahead > 0 {
		parts = append(parts, pluralize(s.Ahead, "commit")+" ahead")
	}
	if s.Behind > 0 {
		parts = append(parts, pluralize(s.Behind, "commit")+" behind")
	}
	return parts
}
