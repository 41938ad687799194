package explorer

// Node is one row of the explorer tree.
type Node interface {
	// Children fetches the node's children. It may block on git queries;
	// hosts call it off the UI thread.
	Children() ([]Node, error)
	TreeItem() (TreeItem, error)
}

// RefNode is a node that names a git revision.
type RefNode interface {
	Node
	Ref() string
}

// PagedNode is a node whose children are a bounded page of history.
type PagedNode interface {
	Node
	// ShowAll returns a copy of the node that lists every child.
	ShowAll() Node
}

type CollapsibleState int

const (
	CollapsibleNone CollapsibleState = iota
	CollapsibleCollapsed
	CollapsibleExpanded
)

func (s CollapsibleState) String() string {
	switch s {
	case CollapsibleCollapsed:
		return "collapsed"
	case CollapsibleExpanded:
		return "expanded"
	default:
		return "none"
	}
}

// ResourceType tags a row so hosts know which actions apply to it.
type ResourceType string

const (
	ResourceBranch                    ResourceType = "gitk-explorer:branch"
	ResourceBranchWithTracking        ResourceType = "gitk-explorer:branch:tracking"
	ResourceCurrentBranch             ResourceType = "gitk-explorer:branch:current"
	ResourceCurrentBranchWithTracking ResourceType = "gitk-explorer:branch:current:tracking"
	ResourceRemoteBranch              ResourceType = "gitk-explorer:branch:remote"
	ResourceBranches                  ResourceType = "gitk-explorer:branches"
	ResourceCommit                    ResourceType = "gitk-explorer:commit"
	ResourceCommitOnCurrentBranch     ResourceType = "gitk-explorer:commit:current"
	ResourceFolder                    ResourceType = "gitk-explorer:folder"
	ResourceMessage                   ResourceType = "gitk-explorer:message"
	ResourceRemote                    ResourceType = "gitk-explorer:remote"
	ResourceRemotes                   ResourceType = "gitk-explorer:remotes"
	ResourceRepository                ResourceType = "gitk-explorer:repository"
	ResourceShowAll                   ResourceType = "gitk-explorer:showall"
)

// IsBranch reports whether r tags any kind of branch row.
func (r ResourceType) IsBranch() bool {
	switch r {
	case ResourceBranch, ResourceBranchWithTracking, ResourceCurrentBranch,
		ResourceCurrentBranchWithTracking, ResourceRemoteBranch:
		return true
	}
	return false
}

// IsCommit reports whether r tags a commit row.
func (r ResourceType) IsCommit() bool {
	return r == ResourceCommit || r == ResourceCommitOnCurrentBranch
}

// IconPath holds the theme variants of a row icon.
type IconPath struct {
	Dark  string
	Light string
}

// TreeItem describes how a host renders a node.
type TreeItem struct {
	Label            string
	CollapsibleState CollapsibleState
	ContextValue     ResourceType
	IconPath         *IconPath
	Tooltip          string
}

const (
	GlyphCheck          = "✓"
	GlyphSpace          = "\u00a0"
	GlyphArrowLeftRight = "⇆"
	GlyphDot            = "•"
)
