package testplan

import (
	"sync"

	"qemcp/internal/api"
	"qemcp/internal/template"
)

// DefaultParallelism bounds concurrent test case creation when Options
// leaves it unset.
const DefaultParallelism = 4

// Options tunes the service.
type Options struct {
	// Parallelism bounds concurrent work item creation.
	Parallelism int

	// AreaPath and IterationPath are applied to created test cases and
	// plans when set.
	AreaPath      string
	IterationPath string

	// Names renders the names of created suites.
	Names SuiteNames
}

// SuiteNames holds the name templates of created suites. A nil template
// falls back to FeatureSuiteName or RequirementSuiteName.
type SuiteNames struct {
	Feature     *template.Name
	Requirement *template.Name
}

func (n SuiteNames) feature(id int, title string) (string, error) {
	if n.Feature == nil {
		return FeatureSuiteName(id, title), nil
	}
	return n.Feature.Render(id, title)
}

func (n SuiteNames) requirement(id int, title string) (string, error) {
	if n.Requirement == nil {
		return RequirementSuiteName(id, title), nil
	}
	return n.Requirement.Render(id, title)
}

// Service implements test case comparison and suite reconciliation.
type Service struct {
	mu      sync.RWMutex
	backend api.Backend
	guard   SuiteGuard
	opts    Options
}

// NewService creates a service. A nil guard means no serialization.
func NewService(backend api.Backend, guard SuiteGuard, opts Options) *Service {
	if guard == nil {
		guard = NoopSuiteGuard{}
	}
	return &Service{
		backend: backend,
		guard:   guard,
		opts:    normalizeOptions(opts),
	}
}

// Reconfigure swaps the backend and options, e.g. after a configuration
// reload. Calls already running keep the backend they started with.
func (s *Service) Reconfigure(backend api.Backend, opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = backend
	s.opts = normalizeOptions(opts)
}

func normalizeOptions(opts Options) Options {
	if opts.Parallelism < 1 {
		opts.Parallelism = DefaultParallelism
	}
	return opts
}

// backendFor returns the backend for a call, scoped to project when one is
// given and the backend supports it.
func (s *Service) backendFor(project string) api.Backend {
	s.mu.RLock()
	backend := s.backend
	s.mu.RUnlock()

	if project == "" {
		return backend
	}
	if scoper, ok := backend.(api.ProjectScoper); ok {
		return scoper.ForProject(project)
	}
	return backend
}

func (s *Service) options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}
