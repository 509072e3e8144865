package progress

import (
	"fmt"
	"sync"

	"github.com/quasilyte/gdata/v2"
)

const gdataObject = "progress"

// GdataKV stores progress in the platform's per-user data directory.
type GdataKV struct {
	m *gdata.Manager
}

// NewGdataKV opens the data store for appName.
func NewGdataKV(appName string) (*GdataKV, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open data store for %s: %w", appName, err)
	}
	return &GdataKV{m: m}, nil
}

func (kv *GdataKV) Load(key string) ([]byte, error) {
	if !kv.m.ObjectPropExists(gdataObject, key) {
		return nil, ErrNotFound
	}
	return kv.m.LoadObjectProp(gdataObject, key)
}

func (kv *GdataKV) Save(key string, data []byte) error {
	return kv.m.SaveObjectProp(gdataObject, key, data)
}

// MemoryKV keeps progress for the lifetime of the process. Used when no
// data directory is available, and in tests.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (kv *MemoryKV) Load(key string) ([]byte, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	d, ok := kv.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), d...), nil
}

func (kv *MemoryKV) Save(key string, data []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = append([]byte(nil), data...)
	return nil
}
