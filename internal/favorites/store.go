package favorites

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	sonic "github.com/bytedance/sonic"

	"github.com/bongdaha/livescore/internal/platform/logging"
)

// Store is the persisted favorite-match set: a single durable key holding a
// JSON array of fixture ids, overwritten wholesale on every toggle. Toggle
// persists before it returns, so a render can never observe an unpersisted
// mutation.
type Store struct {
	mu     sync.RWMutex
	path   string
	ids    map[int64]struct{}
	logger *logging.Logger
}

// Load reads the persisted set. Absent or malformed state yields an empty
// set; Load never fails.
func Load(path string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Store{
		path:   path,
		ids:    make(map[int64]struct{}),
		logger: logger,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("read favorites, starting empty", "path", path, "error", err)
		}
		return s
	}

	var ids []int64
	if err := sonic.Unmarshal(raw, &ids); err != nil {
		logger.Warn("favorites file malformed, starting empty", "path", path, "error", err)
		return s
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s *Store) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Toggle adds the id if absent, removes it if present, and persists the new
// set before returning. Reports the id's membership after the toggle.
func (s *Store) Toggle(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	on := false
	if _, ok := s.ids[id]; ok {
		on = true
	}

	if err := s.persistLocked(); err != nil {
		s.logger.Warn("persist favorites failed", "path", s.path, "error", err)
	}
	return on
}

// IDs returns the sorted membership, mainly for persistence and tests.
func (s *Store) IDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *Store) sortedLocked() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Store) persistLocked() error {
	raw, err := sonic.Marshal(s.sortedLocked())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	// Write-then-rename so a crash mid-write leaves the previous set intact.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
