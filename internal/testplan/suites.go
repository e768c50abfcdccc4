package testplan

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"qemcp/internal/api"
	"qemcp/pkg/logging"
)

// SuiteGuard runs a suite find-or-create step for a key. Implementations
// decide whether concurrent steps for the same key may overlap.
type SuiteGuard interface {
	Do(key string, fn func() (*api.TestSuite, error)) (*api.TestSuite, error)

	// Exclusive reports whether Do never overlaps two steps for the same
	// key. Exclusive steps list the plan's suites again before looking, so
	// they see suites created by the previous holder of the key.
	Exclusive() bool
}

// NoopSuiteGuard runs fn directly. Concurrent calls for the same story can
// race between listing and creating suites.
type NoopSuiteGuard struct{}

// Do runs fn.
func (NoopSuiteGuard) Do(_ string, fn func() (*api.TestSuite, error)) (*api.TestSuite, error) {
	return fn()
}

// Exclusive returns false.
func (NoopSuiteGuard) Exclusive() bool { return false }

// KeyedSuiteGuard runs find-or-create steps for the same key one at a time.
// Steps for different keys run concurrently. It only covers callers inside
// this process.
type KeyedSuiteGuard struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu      sync.Mutex
	holders int
}

// NewKeyedSuiteGuard creates a KeyedSuiteGuard.
func NewKeyedSuiteGuard() *KeyedSuiteGuard {
	return &KeyedSuiteGuard{locks: make(map[string]*keyLock)}
}

// Do runs fn while holding the lock for key.
func (g *KeyedSuiteGuard) Do(key string, fn func() (*api.TestSuite, error)) (*api.TestSuite, error) {
	lock := g.acquire(key)
	defer g.release(key, lock)
	return fn()
}

// Exclusive returns true.
func (g *KeyedSuiteGuard) Exclusive() bool { return true }

func (g *KeyedSuiteGuard) acquire(key string) *keyLock {
	g.mu.Lock()
	lock, ok := g.locks[key]
	if !ok {
		lock = &keyLock{}
		g.locks[key] = lock
	}
	lock.holders++
	g.mu.Unlock()

	if !lock.mu.TryLock() {
		logging.Debug("Reconcile", "Waiting for suite step on %s", key)
		lock.mu.Lock()
	}
	return lock
}

func (g *KeyedSuiteGuard) release(key string, lock *keyLock) {
	lock.mu.Unlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	lock.holders--
	if lock.holders == 0 {
		delete(g.locks, key)
	}
}

// pending returns the number of keys with a running or waiting step.
func (g *KeyedSuiteGuard) pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}

func featureKey(planID, featureID int) string {
	return fmt.Sprintf("plan/%d/feature/%d", planID, featureID)
}

func requirementKey(planID, storyID int) string {
	return fmt.Sprintf("plan/%d/requirement/%d", planID, storyID)
}

// featureTokenPattern matches a leading "Feature <digits>" token.
var featureTokenPattern = regexp.MustCompile(`(?i)^Feature\s+(\d+)\b`)

// FeatureSuiteName is the name of the static suite grouping a feature's
// requirement suites.
func FeatureSuiteName(featureID int, featureTitle string) string {
	return fmt.Sprintf("Feature %d: %s", featureID, strings.TrimSpace(featureTitle))
}

// RequirementSuiteName is the name given to a newly created requirement suite.
func RequirementSuiteName(storyID int, storyTitle string) string {
	return fmt.Sprintf("%d: %s", storyID, strings.TrimSpace(storyTitle))
}

// FeatureID extracts the id of a leading "Feature <id>" token from a suite
// name. It reports false when the name does not start with one.
func FeatureID(suiteName string) (int, bool) {
	m := featureTokenPattern.FindStringSubmatch(strings.TrimSpace(suiteName))
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// findFeatureSuite returns the static suite for the feature: either one named
// exactly name, or one whose name starts with the feature's "Feature <id>"
// token. Exact names win over token matches.
func findFeatureSuite(suites []api.TestSuite, featureID int, name string) *api.TestSuite {
	var tokenMatch *api.TestSuite
	for i := range suites {
		suite := &suites[i]
		if suite.SuiteType != api.SuiteTypeStatic {
			continue
		}
		if strings.TrimSpace(suite.Name) == name {
			return suite
		}
		if id, ok := FeatureID(suite.Name); ok && id == featureID && tokenMatch == nil {
			tokenMatch = suite
		}
	}
	return tokenMatch
}

// findRequirementSuite returns the plan's requirement suite for the story.
func findRequirementSuite(suites []api.TestSuite, storyID int) *api.TestSuite {
	for i := range suites {
		suite := &suites[i]
		if suite.RequirementID == storyID && suite.SuiteType != api.SuiteTypeStatic && suite.SuiteType != api.SuiteTypeDynamic {
			return suite
		}
	}
	return nil
}

// suiteSnapshot is one listing of a plan's suites, shared by the feature and
// requirement lookups of a single run. Creating a suite invalidates it.
type suiteSnapshot struct {
	backend api.Backend
	planID  int
	suites  []api.TestSuite
	valid   bool
}

func (s *suiteSnapshot) get(ctx context.Context) ([]api.TestSuite, error) {
	if s.valid {
		return s.suites, nil
	}
	suites, err := s.backend.ListTestSuites(ctx, s.planID)
	if err != nil {
		return nil, api.WrapServiceError("list test suites", err)
	}
	s.suites = suites
	s.valid = true
	return suites, nil
}

func (s *suiteSnapshot) invalidate() {
	s.valid = false
}
