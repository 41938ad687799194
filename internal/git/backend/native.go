package backend

import (
	"container/heap"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type native struct {
	path string
	repo *gitlib.Repository
}

// OpenNative opens repoPath (or any directory below it) with go-git.
func OpenNative(repoPath string) (Backend, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	root := abs
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &native{path: root, repo: repo}, nil
}

func (n *native) RepoPath() string {
	return n.path
}

func (n *native) HeadState() (hash string, headName string, ok bool, err error) {
	ref, err := n.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", "", false, nil
		}
		return "", "", false, fmt.Errorf("resolve HEAD: %w", err)
	}
	headName = "HEAD"
	if ref.Name().IsBranch() {
		headName = ref.Name().Short()
	}
	return ref.Hash().String(), headName, true, nil
}

func (n *native) ListBranches() ([]Branch, error) {
	cfg, err := n.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var headName plumbing.ReferenceName
	if head, err := n.repo.Head(); err == nil {
		headName = head.Name()
	}
	return n.listRefs(func(ref *plumbing.Reference) (Branch, error) {
		b := Branch{
			Name:    ref.Name().Short(),
			Hash:    ref.Hash().String(),
			Current: ref.Name() == headName,
		}
		bc, ok := cfg.Branches[b.Name]
		if !ok || bc.Remote == "" || !bc.Merge.IsBranch() {
			return b, nil
		}
		upstream := plumbing.NewRemoteReferenceName(bc.Remote, bc.Merge.Short())
		b.Tracking = bc.Remote + "/" + bc.Merge.Short()
		if bc.Remote == "." {
			upstream = bc.Merge
			b.Tracking = bc.Merge.Short()
		}
		state, err := n.upstreamState(ref.Hash(), upstream)
		if err != nil {
			return Branch{}, fmt.Errorf("branch %s: %w", b.Name, err)
		}
		b.State = state
		return b, nil
	})
}

func (n *native) ListRemoteBranches() ([]Branch, error) {
	return n.listRefs(nil)
}

// listRefs collects remote-tracking branches and, when local is set, the
// local branches it builds.
func (n *native) listRefs(local func(ref *plumbing.Reference) (Branch, error)) ([]Branch, error) {
	refs, err := n.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer refs.Close()

	var branches []Branch
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		switch {
		case name.IsBranch() && local != nil:
			b, err := local(ref)
			if err != nil {
				return err
			}
			branches = append(branches, b)
		case name.IsRemote():
			short := name.Short()
			if strings.HasSuffix(short, "/HEAD") {
				return nil
			}
			branches = append(branches, Branch{Name: short, Hash: ref.Hash().String(), Remote: true})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortBranches(branches)
	return branches, nil
}

// upstreamState counts commits reachable from local but not upstream (ahead)
// and the reverse (behind). A missing upstream ref ("gone") yields zero counts.
func (n *native) upstreamState(local plumbing.Hash, upstreamName plumbing.ReferenceName) (BranchState, error) {
	upstream, err := n.repo.Reference(upstreamName, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return BranchState{}, nil
		}
		return BranchState{}, err
	}
	if upstream.Hash() == local {
		return BranchState{}, nil
	}
	return n.aheadBehind(local, upstream.Hash())
}

const (
	sideLocal uint8 = 1 << iota
	sideUpstream

	sideBoth = sideLocal | sideUpstream
)

// aheadBehind walks both tips newest first, marking each commit with the
// sides it is reachable from. The walk ends once every queued commit is
// reachable from both sides, so only the commits above the merge base are
// read. Commits marked with a single side are the ahead and behind ones.
func (n *native) aheadBehind(local, upstream plumbing.Hash) (BranchState, error) {
	marks := map[plumbing.Hash]uint8{}
	queue := &commitQueue{}
	enqueue := func(h plumbing.Hash, side uint8) error {
		old, seen := marks[h]
		if seen && old|side == old {
			return nil
		}
		marks[h] = old | side
		c, err := n.repo.CommitObject(h)
		if err != nil {
			return fmt.Errorf("read commit %s: %w", h, err)
		}
		heap.Push(queue, c)
		return nil
	}
	if err := enqueue(local, sideLocal); err != nil {
		return BranchState{}, err
	}
	if err := enqueue(upstream, sideUpstream); err != nil {
		return BranchState{}, err
	}
	for queue.pending(marks) {
		c := heap.Pop(queue).(*object.Commit)
		side := marks[c.Hash]
		for _, p := range c.ParentHashes {
			if err := enqueue(p, side); err != nil {
				return BranchState{}, err
			}
		}
	}
	var state BranchState
	for _, side := range marks {
		switch side {
		case sideLocal:
			state.Ahead++
		case sideUpstream:
			state.Behind++
		}
	}
	return state, nil
}

// commitQueue is a max-heap of commits ordered by committer time.
type commitQueue []*object.Commit

func (q commitQueue) Len() int { return len(q) }

func (q commitQueue) Less(i, j int) bool {
	return q[i].Committer.When.After(q[j].Committer.When)
}

func (q commitQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *commitQueue) Push(x any) { *q = append(*q, x.(*object.Commit)) }

func (q *commitQueue) Pop() any {
	old := *q
	c := old[len(old)-1]
	*q = old[:len(old)-1]
	return c
}

// pending reports whether some queued commit is still reachable from only
// one side.
func (q commitQueue) pending(marks map[plumbing.Hash]uint8) bool {
	for _, c := range q {
		if marks[c.Hash] != sideBoth {
			return true
		}
	}
	return false
}

func (n *native) ResolveRef(ref string) (string, bool, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = "HEAD"
	}
	hash, err := n.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) || errors.Is(err, plumbing.ErrObjectNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("resolve %s: %w", ref, err)
	}
	return hash.String(), true, nil
}

func (n *native) StartLogStream(fromHash string) (LogStream, error) {
	fromHash = strings.TrimSpace(fromHash)
	if fromHash == "" {
		return nil, fmt.Errorf("starting commit not specified")
	}
	iter, err := n.repo.Log(&gitlib.LogOptions{From: plumbing.NewHash(fromHash), Order: gitlib.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("read commits: %w", err)
	}
	return &nativeLogStream{iter: iter}, nil
}

type nativeLogStream struct {
	iter object.CommitIter
}

func (s *nativeLogStream) Next() (*Commit, error) {
	c, err := s.iter.Next()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("iterate commits: %w", err)
	}
	return commitFromObject(c), nil
}

func (s *nativeLogStream) Close() error {
	s.iter.Close()
	return nil
}

func commitFromObject(c *object.Commit) *Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return &Commit{
		Hash:         c.Hash.String(),
		ParentHashes: parents,
		Author:       Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer:    Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Message:      c.Message,
	}
}

func (n *native) CommitDiffText(commitHash string, parentHash string) (string, error) {
	commitHash = strings.TrimSpace(commitHash)
	if commitHash == "" {
		return "", fmt.Errorf("commit not specified")
	}
	commit, err := n.repo.CommitObject(plumbing.NewHash(commitHash))
	if err != nil {
		return "", fmt.Errorf("load commit %s: %w", commitHash, err)
	}
	parentHash = strings.TrimSpace(parentHash)
	if parentHash == "" {
		tree, err := commit.Tree()
		if err != nil {
			return "", fmt.Errorf("load tree: %w", err)
		}
		changes, err := object.DiffTree(nil, tree)
		if err != nil {
			return "", fmt.Errorf("diff tree: %w", err)
		}
		patch, err := changes.Patch()
		if err != nil {
			return "", fmt.Errorf("build patch: %w", err)
		}
		return patch.String(), nil
	}
	parent, err := n.repo.CommitObject(plumbing.NewHash(parentHash))
	if err != nil {
		return "", fmt.Errorf("load commit %s: %w", parentHash, err)
	}
	patch, err := parent.Patch(commit)
	if err != nil {
		return "", fmt.Errorf("build patch: %w", err)
	}
	return patch.String(), nil
}

func (n *native) SwitchBranch(branch string) error {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return fmt.Errorf("branch not specified")
	}
	wt, err := n.repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := wt.Checkout(&gitlib.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch), Keep: true}); err != nil {
		return fmt.Errorf("switch to %s: %w", branch, err)
	}
	return nil
}
