package git

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	gitbackend "github.com/thiagokokada/gitk-explorer/internal/git/backend"
)

const DefaultLimit = 200

type Service struct {
	// mu serializes backend access; go-git iterators and git subprocesses are
	// not shared between callers.
	mu sync.Mutex

	backend gitbackend.Backend
	limit   int
}

func Open(repoPath string, kind gitbackend.Kind) (*Service, error) {
	b, err := gitbackend.Open(repoPath, kind)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(b), nil
}

func NewWithBackend(b gitbackend.Backend) *Service {
	return &Service{backend: b, limit: DefaultLimit}
}

func (s *Service) RepoPath() string {
	if s == nil || s.backend == nil {
		return ""
	}
	return s.backend.RepoPath()
}

// SetDefaultLimit sets the page size used when LogOptions.MaxCount is zero.
// Values <= 0 make unbounded reads the default.
func (s *Service) SetDefaultLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit
}

func (s *Service) ready() error {
	if s == nil || s.backend == nil || s.backend.RepoPath() == "" {
		return fmt.Errorf("repository root not set")
	}
	return nil
}

// Log reads one page of history starting at opts.Ref. It returns a nil Log
// and no error when the ref does not resolve to a commit, which includes
// repositories without any commit yet.
func (s *Service) Log(opts LogOptions) (log *Log, err error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := strings.TrimSpace(opts.Ref)
	if ref == "" {
		ref = "HEAD"
	}
	limit := opts.MaxCount
	if limit == 0 {
		limit = s.limit
	}
	if limit < 0 {
		limit = 0
	}
	slog.Debug("Log start", slog.String("ref", ref), slog.Int("limit", limit))

	hash, ok, err := s.backend.ResolveRef(ref)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}
	if !ok {
		slog.Debug("Log ref not found", slog.String("ref", ref))
		return nil, nil
	}
	stream, err := s.backend.StartLogStream(hash)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil && err == nil {
			log, err = nil, fmt.Errorf("close log stream: %w", cerr)
		}
	}()

	log = &Log{RepoPath: s.backend.RepoPath(), Ref: ref, MaxCount: limit}
	for limit == 0 || len(log.Commits) < limit {
		commit, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("iterate commits: %w", err)
		}
		log.Commits = append(log.Commits, commit)
	}
	if limit > 0 && len(log.Commits) == limit {
		// Read ahead a single commit to learn whether the page is complete.
		_, err := stream.Next()
		switch {
		case err == nil:
			log.Truncated = true
		case !errors.Is(err, io.EOF):
			return nil, fmt.Errorf("iterate commits: %w", err)
		}
	}
	slog.Debug("Log done",
		slog.String("ref", ref),
		slog.Int("returned", len(log.Commits)),
		slog.Bool("truncated", log.Truncated),
	)
	return log, nil
}

// Branches lists local branches followed by remote branches, each sorted by
// name, with upstream tracking state for local ones.
func (s *Service) Branches() ([]Branch, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	branches, err := s.backend.ListBranches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// RemoteBranches lists remote-tracking branches sorted by name. It skips the
// local tracking state Branches computes.
func (s *Service) RemoteBranches() ([]Branch, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	branches, err := s.backend.ListRemoteBranches()
	if err != nil {
		return nil, fmt.Errorf("list remote branches: %w", err)
	}
	return branches, nil
}

// CommitDiff returns the unified diff of c against its first parent, or the
// full content for root commits.
func (s *Service) CommitDiff(c *Commit) (string, error) {
	if c == nil {
		return "", fmt.Errorf("commit not specified")
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	parent := ""
	if len(c.ParentHashes) > 0 {
		parent = c.ParentHashes[0]
	}
	return s.backend.CommitDiffText(c.Hash, parent)
}

func (s *Service) SwitchBranch(branch string) error {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return fmt.Errorf("branch not specified")
	}
	if err := s.ready(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.backend.SwitchBranch(branch)
}
