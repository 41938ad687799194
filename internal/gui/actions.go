package gui

import (
	"github.com/thiagokokada/gitk-explorer/internal/explorer"
)

type actionKind int

const (
	actionSwitchBranch actionKind = iota
	actionCopyBranchName
	actionCopyCommitHash
	actionCopyCommitMessage
	actionShowAll
	actionRefresh
)

type contextAction struct {
	kind  actionKind
	label string
}

// contextActions lists the context menu entries that apply to a row tagged
// ctx.
func contextActions(ctx explorer.ResourceType) []contextAction {
	var actions []contextAction
	switch {
	case ctx.IsBranch():
		if ctx == explorer.ResourceBranch || ctx == explorer.ResourceBranchWithTracking {
			actions = append(actions, contextAction{actionSwitchBranch, "Switch to Branch"})
		}
		actions = append(actions, contextAction{actionCopyBranchName, "Copy Branch Name"})
	case ctx.IsCommit():
		actions = append(actions,
			contextAction{actionCopyCommitHash, "Copy Commit Hash"},
			contextAction{actionCopyCommitMessage, "Copy Commit Message"},
		)
	case ctx == explorer.ResourceShowAll:
		actions = append(actions, contextAction{actionShowAll, "Show All Commits"})
	case ctx == explorer.ResourceMessage:
		return nil
	}
	return append(actions, contextAction{actionRefresh, "Refresh"})
}
