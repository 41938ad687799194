package git

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	gitbackend "github.com/thiagokokada/gitk-explorer/internal/git/backend"
)

// Provider hands out one Service per repository path. It is the single
// entry point the explorer uses to query git data.
type Provider struct {
	mu       sync.Mutex
	services map[string]*Service
	limit    int
	open     func(repoPath string) (*Service, error)
}

func NewProvider(kind gitbackend.Kind, limit int) *Provider {
	return &Provider{
		limit: limit,
		open: func(repoPath string) (*Service, error) {
			return Open(repoPath, kind)
		},
	}
}

// NewProviderWith builds a Provider whose services come from open. Useful to
// plug fake backends.
func NewProviderWith(limit int, open func(repoPath string) (*Service, error)) *Provider {
	return &Provider{limit: limit, open: open}
}

// Service returns the cached Service for repoPath, opening it on first use.
func (p *Provider) Service(repoPath string) (*Service, error) {
	key, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if svc, ok := p.services[key]; ok {
		return svc, nil
	}
	if p.open == nil {
		return nil, fmt.Errorf("no repository opener configured")
	}
	svc, err := p.open(key)
	if err != nil {
		return nil, err
	}
	if p.limit != 0 {
		svc.SetDefaultLimit(p.limit)
	}
	if p.services == nil {
		p.services = make(map[string]*Service)
	}
	p.services[key] = svc
	if root := svc.RepoPath(); root != "" && root != key {
		p.services[root] = svc
	}
	slog.Debug("repository opened", slog.String("path", key), slog.String("root", svc.RepoPath()))
	return svc, nil
}

func (p *Provider) Log(repoPath string, opts LogOptions) (*Log, error) {
	svc, err := p.Service(repoPath)
	if err != nil {
		return nil, err
	}
	return svc.Log(opts)
}

func (p *Provider) Branches(repoPath string) ([]Branch, error) {
	svc, err := p.Service(repoPath)
	if err != nil {
		return nil, err
	}
	return svc.Branches()
}

func (p *Provider) RemoteBranches(repoPath string) ([]Branch, error) {
	svc, err := p.Service(repoPath)
	if err != nil {
		return nil, err
	}
	return svc.RemoteBranches()
}

// Reset drops every cached Service so the next query reopens the repository.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.services = nil
}
