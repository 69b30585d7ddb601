package cook

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/quasilyte/gdata"
)

const manifestItem = "cook-manifest"

// Manifest maps a source tileset path to the content hash of its last cook.
type Manifest struct {
	Entries map[string]uint64 `json:"entries"`
}

func NewManifest() Manifest {
	return Manifest{Entries: make(map[string]uint64)}
}

// Store persists the manifest between runs.
type Store interface {
	Load() (Manifest, error)
	Save(Manifest) error
}

// GdataStore keeps the manifest in the per-user data directory of an app.
type GdataStore struct {
	m *gdata.Manager
}

// OpenGdataStore initializes the gdata manager for appName.
func OpenGdataStore(appName string) (*GdataStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open manifest store %s: %w", appName, err)
	}
	return &GdataStore{m: m}, nil
}

func (s *GdataStore) Load() (Manifest, error) {
	data, err := s.m.LoadItem(manifestItem)
	if err != nil {
		return Manifest{}, fmt.Errorf("load manifest: %w", err)
	}
	if data == nil {
		// nothing cooked yet
		return NewManifest(), nil
	}
	return decodeManifest(data)
}

func (s *GdataStore) Save(m Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := s.m.SaveItem(manifestItem, data); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

// MemoryStore keeps the manifest for the lifetime of the process.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func (s *MemoryStore) Load() (Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return NewManifest(), nil
	}
	return decodeManifest(s.data)
}

func (s *MemoryStore) Save(m Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func decodeManifest(data []byte) (Manifest, error) {
	m := NewManifest()
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Entries == nil {
		m.Entries = make(map[string]uint64)
	}
	return m, nil
}
