package explorer

// MessageNode is an informational leaf, such as "No commits yet".
type MessageNode struct {
	Message string
}

func NewMessageNode(message string) *MessageNode {
	return &MessageNode{Message: message}
}

func (n *MessageNode) Children() ([]Node, error) { return nil, nil }

func (n *MessageNode) TreeItem() (TreeItem, error) {
	return TreeItem{
		Label:            n.Message,
		CollapsibleState: CollapsibleNone,
		ContextValue:     ResourceMessage,
	}, nil
}
