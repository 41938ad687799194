package explorer

// ShowAllNode trails a truncated page. Activating it yields a copy of the
// paged parent that lists everything.
type ShowAllNode struct {
	Message string

	parent   PagedNode
	explorer *Explorer
}

func NewShowAllNode(message string, parent PagedNode, explorer *Explorer) *ShowAllNode {
	return &ShowAllNode{Message: message, parent: parent, explorer: explorer}
}

func (n *ShowAllNode) Parent() PagedNode { return n.parent }

// Activate returns the node that should replace the parent in the tree.
func (n *ShowAllNode) Activate() Node {
	return n.parent.ShowAll()
}

func (n *ShowAllNode) Children() ([]Node, error) { return nil, nil }

func (n *ShowAllNode) TreeItem() (TreeItem, error) {
	return TreeItem{
		Label:            n.Message,
		CollapsibleState: CollapsibleNone,
		ContextValue:     ResourceShowAll,
		Tooltip:          "Load the complete history",
	}, nil
}
