package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/models"
)

const (
	ckLatestRun = "run_latest_session_%s"

	DefaultRunExpiration = 2 * time.Hour
	CacheCleanupInterval = 30 * time.Minute
)

type runStoreImpl struct {
	cache *cache.Cache
	// mu serializes read-modify-write of a stored run.
	mu sync.Mutex
}

// NewRunStore wraps c. Entries expire with c's default expiration.
func NewRunStore(c *cache.Cache) RunStore {
	return &runStoreImpl{cache: c}
}

// NewRunCache builds the cache backing a RunStore.
func NewRunCache(expiration time.Duration) *cache.Cache {
	if expiration <= 0 {
		expiration = DefaultRunExpiration
	}
	return cache.New(expiration, CacheCleanupInterval)
}

// Save replaces the session's run. Starting a new run discards the previous records.
func (s *runStoreImpl) Save(sessionID string, result *models.CompileResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(fmt.Sprintf(ckLatestRun, sessionID), result, cache.DefaultExpiration)
	logger.L.Debug("Stored run for session", "sessionID", sessionID, "runID", result.RunID, "records", len(result.Records))
}

// Get returns a copy of the session's latest run.
func (s *runStoreImpl) Get(sessionID string) (*models.CompileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	return cloneResult(result), nil
}

// OverrideCategory changes the category of one record. Category is the only
// field of a record that may change after compilation.
func (s *runStoreImpl) OverrideCategory(sessionID, recordID, category string) (*models.NormalizedRecord, error) {
	c, ok := models.ParseCategory(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	updated := cloneResult(current)
	for i := range updated.Records {
		if updated.Records[i].ID != recordID {
			continue
		}
		previous := updated.Records[i].Category
		updated.Records[i].Category = c
		s.cache.Set(fmt.Sprintf(ckLatestRun, sessionID), updated, cache.DefaultExpiration)
		logger.L.Info("Category overridden", "sessionID", sessionID, "recordID", recordID, "from", previous, "to", c)
		rec := updated.Records[i]
		return &rec, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, recordID)
}

// Clear discards the session's run.
func (s *runStoreImpl) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(fmt.Sprintf(ckLatestRun, sessionID))
	logger.L.Info("Cleared run for session", "sessionID", sessionID)
}

func (s *runStoreImpl) get(sessionID string) (*models.CompileResult, error) {
	cached, found := s.cache.Get(fmt.Sprintf(ckLatestRun, sessionID))
	if !found {
		return nil, ErrRunNotFound
	}
	result, ok := cached.(*models.CompileResult)
	if !ok {
		return nil, ErrRunNotFound
	}
	return result, nil
}

func cloneResult(r *models.CompileResult) *models.CompileResult {
	c := *r
	c.Records = append([]models.NormalizedRecord(nil), r.Records...)
	c.FileErrors = append([]models.FileError(nil), r.FileErrors...)
	if c.Records == nil {
		c.Records = []models.NormalizedRecord{}
	}
	if c.FileErrors == nil {
		c.FileErrors = []models.FileError{}
	}
	return &c
}
