package backend

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// NUL-separated fields; ref names cannot contain NUL.
const forEachRefFormat = "%(refname)%00%(objectname)%00%(HEAD)%00%(upstream:short)%00%(upstream:track,nobracket)"

// remoteRefFormat keeps the field layout of forEachRefFormat but leaves out
// the tracking fields, which make git count ahead/behind.
const remoteRefFormat = "%(refname)%00%(objectname)%00%00%00"

func (g *gitCLI) HeadState() (hash string, headName string, ok bool, err error) {
	out, err := g.git([]string{"rev-parse", "-q", "--verify", "HEAD"}, true)
	if err != nil {
		return "", "", false, err
	}
	hash = strings.TrimSpace(out)
	if hash == "" {
		return "", "", false, nil
	}
	ref, err := g.git([]string{"symbolic-ref", "-q", "--short", "HEAD"}, true)
	if err != nil {
		return "", "", false, err
	}
	headName = strings.TrimSpace(ref)
	if headName == "" {
		headName = "HEAD"
	}
	return hash, headName, true, nil
}

func (g *gitCLI) ListBranches() ([]Branch, error) {
	out, err := g.git([]string{
		"for-each-ref",
		"--format=" + forEachRefFormat,
		"refs/heads",
		"refs/remotes",
	}, false)
	if err != nil {
		return nil, err
	}
	branches, err := parseForEachRef(out)
	if err != nil {
		return nil, err
	}
	SortBranches(branches)
	return branches, nil
}

func (g *gitCLI) ListRemoteBranches() ([]Branch, error) {
	out, err := g.git([]string{
		"for-each-ref",
		"--format=" + remoteRefFormat,
		"refs/remotes",
	}, false)
	if err != nil {
		return nil, err
	}
	branches, err := parseForEachRef(out)
	if err != nil {
		return nil, err
	}
	SortBranches(branches)
	return branches, nil
}

func (g *gitCLI) ResolveRef(ref string) (string, bool, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = "HEAD"
	}
	out, err := g.git([]string{"rev-parse", "-q", "--verify", "--end-of-options", ref + "^{commit}"}, true)
	if err != nil {
		return "", false, err
	}
	hash := strings.TrimSpace(out)
	if hash == "" {
		return "", false, nil
	}
	return hash, true, nil
}

func (g *gitCLI) StartLogStream(fromHash string) (LogStream, error) {
	return startGitLogStream(g.path, fromHash)
}

func (g *gitCLI) CommitDiffText(commitHash string, parentHash string) (string, error) {
	commitHash = strings.TrimSpace(commitHash)
	parentHash = strings.TrimSpace(parentHash)
	if commitHash == "" {
		return "", fmt.Errorf("commit not specified")
	}
	if parentHash != "" {
		return g.git([]string{"diff", "--no-color", parentHash, commitHash}, true)
	}
	return g.git([]string{"show", "--no-color", "--pretty=format:", commitHash}, false)
}

func (g *gitCLI) SwitchBranch(branch string) error {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return fmt.Errorf("branch not specified")
	}
	_, err := g.git([]string{"switch", "--", branch}, false)
	return err
}

func parseForEachRef(out string) ([]Branch, error) {
	var branches []Branch
	for rawLine := range strings.SplitSeq(out, "\n") {
		line := strings.TrimRight(rawLine, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\x00")
		if len(fields) != 5 {
			return nil, fmt.Errorf("unexpected for-each-ref output line: %q", rawLine)
		}
		refName, hash, head, upstream, track := fields[0], fields[1], fields[2], fields[3], fields[4]
		var b Branch
		switch {
		case strings.HasPrefix(refName, "refs/heads/"):
			b.Name = strings.TrimPrefix(refName, "refs/heads/")
			b.Current = strings.TrimSpace(head) == "*"
			b.Tracking = strings.TrimSpace(upstream)
			state, err := parseUpstreamTrack(track)
			if err != nil {
				return nil, fmt.Errorf("branch %s: %w", b.Name, err)
			}
			b.State = state
		case strings.HasPrefix(refName, "refs/remotes/"):
			b.Name = strings.TrimPrefix(refName, "refs/remotes/")
			b.Remote = true
			if strings.HasSuffix(b.Name, "/HEAD") {
				continue
			}
		default:
			continue
		}
		if b.Name == "" {
			continue
		}
		b.Hash = strings.TrimSpace(hash)
		branches = append(branches, b)
	}
	return branches, nil
}

// parseUpstreamTrack parses %(upstream:track,nobracket) values such as
// "ahead 2, behind 1", "behind 3" or "gone".
func parseUpstreamTrack(track string) (BranchState, error) {
	var state BranchState
	track = strings.TrimSpace(track)
	if track == "" || track == "gone" {
		return state, nil
	}
	for part := range strings.SplitSeq(track, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), " ")
		if !ok {
			return state, fmt.Errorf("unexpected upstream track %q", track)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return state, fmt.Errorf("unexpected upstream track %q", track)
		}
		switch key {
		case "ahead":
			state.Ahead = n
		case "behind":
			state.Behind = n
		default:
			return state, fmt.Errorf("unexpected upstream track %q", track)
		}
	}
	return state, nil
}

// SortBranches orders local branches before remote ones, each group by name.
func SortBranches(branches []Branch) {
	slices.SortStableFunc(branches, func(a, b Branch) int {
		if a.Remote != b.Remote {
			if a.Remote {
				return 1
			}
			return -1
		}
		return strings.Compare(a.Name, b.Name)
	})
}
