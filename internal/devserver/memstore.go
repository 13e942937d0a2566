package devserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-study-sync/internal/adapter"
)

type storedObject struct {
	data     []byte
	modified time.Time
}

// MemStore is the in-memory backing store of the dev server. It keeps
// opaque objects keyed by path plus the latest-snapshot pointer, and is
// safe for concurrent use.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string]storedObject
	pointer string
	now     func() time.Time
}

// NewMemStore returns an empty [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{
		objects: make(map[string]storedObject),
		now:     time.Now,
	}
}

// Put stores data under key, overwriting any previous version.
func (s *MemStore) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = storedObject{data: stored, modified: s.now().UTC()}
}

// Get returns the object stored under key. The third return value
// reports whether the key exists.
func (s *MemStore) Get(key string) ([]byte, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, time.Time{}, false
	}

	data := make([]byte, len(obj.data))
	copy(data, obj.data)

	return data, obj.modified, true
}

// Stat returns metadata for the object stored under key without its
// payload.
func (s *MemStore) Stat(key string) (adapter.ObjectInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return adapter.ObjectInfo{}, false
	}

	return adapter.ObjectInfo{Key: key, Size: int64(len(obj.data)), Modified: obj.modified}, true
}

// List returns metadata for every object whose key starts with prefix,
// sorted by key. An empty prefix matches everything.
func (s *MemStore) List(prefix string) []adapter.ObjectInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]adapter.ObjectInfo, 0, len(s.objects))
	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		infos = append(infos, adapter.ObjectInfo{Key: key, Size: int64(len(obj.data)), Modified: obj.modified})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })

	return infos
}

// Pointer returns the current latest-snapshot pointer, or "" when no
// snapshot has been published yet.
func (s *MemStore) Pointer() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pointer
}

// CompareAndSwapPointer advances the pointer to next if it currently
// holds expected. It reports whether the swap happened.
func (s *MemStore) CompareAndSwapPointer(expected, next string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pointer != expected {
		return false
	}
	s.pointer = next

	return true
}
