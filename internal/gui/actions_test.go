package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thiagokokada/gitk-explorer/internal/explorer"
)

func actionKinds(actions []contextAction) []actionKind {
	kinds := make([]actionKind, 0, len(actions))
	for _, a := range actions {
		kinds = append(kinds, a.kind)
	}
	return kinds
}

func TestContextActions(t *testing.T) {
	tests := []struct {
		ctx  explorer.ResourceType
		want []actionKind
	}{
		{explorer.ResourceBranch, []actionKind{actionSwitchBranch, actionCopyBranchName, actionRefresh}},
		{explorer.ResourceBranchWithTracking, []actionKind{actionSwitchBranch, actionCopyBranchName, actionRefresh}},
		{explorer.ResourceCurrentBranch, []actionKind{actionCopyBranchName, actionRefresh}},
		{explorer.ResourceCurrentBranchWithTracking, []actionKind{actionCopyBranchName, actionRefresh}},
		{explorer.ResourceRemoteBranch, []actionKind{actionCopyBranchName, actionRefresh}},
		{explorer.ResourceCommit, []actionKind{actionCopyCommitHash, actionCopyCommitMessage, actionRefresh}},
		{explorer.ResourceCommitOnCurrentBranch, []actionKind{actionCopyCommitHash, actionCopyCommitMessage, actionRefresh}},
		{explorer.ResourceShowAll, []actionKind{actionShowAll, actionRefresh}},
		{explorer.ResourceRepository, []actionKind{actionRefresh}},
		{explorer.ResourceFolder, []actionKind{actionRefresh}},
		{explorer.ResourceMessage, nil},
	}
	for _, tc := range tests {
		got := actionKinds(contextActions(tc.ctx))
		if tc.want == nil {
			assert.Empty(t, got, "ctx=%s", tc.ctx)
			continue
		}
		assert.Equal(t, tc.want, got, "ctx=%s", tc.ctx)
	}
}
