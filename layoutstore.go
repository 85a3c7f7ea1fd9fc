package stage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
)

// LayoutLoader resolves a layout key to a descriptor. Implementations
// return ErrLayoutNotFound (possibly wrapped) when no document exists.
type LayoutLoader interface {
	LoadLayout(key string) (*LayoutDescriptor, error)
}

// FSLoader loads "<Dir>/<key>.json", then .yaml, then .yml from FS.
type FSLoader struct {
	FS  fs.FS
	Dir string
}

var layoutExtensions = []string{".json", ".yaml", ".yml"}

// LoadLayout implements LayoutLoader.
func (l FSLoader) LoadLayout(key string) (*LayoutDescriptor, error) {
	for _, ext := range layoutExtensions {
		p := path.Join(l.Dir, key+ext)
		data, err := fs.ReadFile(l.FS, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load layout %q: %w", key, err)
		}
		d, err := ParseLayout(data, FormatForPath(p))
		if err != nil {
			return nil, fmt.Errorf("load layout %q: %w", key, err)
		}
		return d, nil
	}
	return nil, fmt.Errorf("load layout %q: %w", key, ErrLayoutNotFound)
}

type pendingLoad struct {
	key       string
	callbacks []func(*LayoutDescriptor, error)
}

// LayoutStore is the scene-local data cache in front of a LayoutLoader.
// Cached descriptors are delivered synchronously; uncached ones are queued
// and delivered on a later Update, mirroring an asynchronous asset pipeline.
type LayoutStore struct {
	loader  LayoutLoader
	cache   map[string]*LayoutDescriptor
	pending []*pendingLoad
	log     *slog.Logger
}

// NewLayoutStore creates a store backed by loader. A nil loader yields a
// store where every uncached key resolves to ErrLayoutNotFound.
func NewLayoutStore(loader LayoutLoader, log *slog.Logger) *LayoutStore {
	return &LayoutStore{
		loader: loader,
		cache:  make(map[string]*LayoutDescriptor),
		log:    orDiscard(log),
	}
}

// Has reports whether key is resident (including a cached absence).
func (s *LayoutStore) Has(key string) bool {
	_, ok := s.cache[key]
	return ok
}

// Get returns the resident descriptor for key. A resident nil descriptor
// records that the key has no document.
func (s *LayoutStore) Get(key string) (*LayoutDescriptor, bool) {
	d, ok := s.cache[key]
	return d, ok
}

// Put makes d resident under key.
func (s *LayoutStore) Put(key string, d *LayoutDescriptor) {
	s.cache[key] = d
}

// Evict drops key from the cache so the next Fetch reloads it.
func (s *LayoutStore) Evict(key string) {
	delete(s.cache, key)
}

// Fetch delivers the descriptor for key to fn. When the key is resident fn
// runs before Fetch returns; otherwise the load is queued (coalesced with
// other fetches of the same key) and fn runs during a later Update.
func (s *LayoutStore) Fetch(key string, fn func(*LayoutDescriptor, error)) {
	if d, ok := s.cache[key]; ok {
		if d == nil {
			fn(nil, fmt.Errorf("fetch layout %q: %w", key, ErrLayoutNotFound))
			return
		}
		fn(d, nil)
		return
	}
	for _, p := range s.pending {
		if p.key == key {
			p.callbacks = append(p.callbacks, fn)
			return
		}
	}
	s.log.Debug("layout queued", "key", key)
	s.pending = append(s.pending, &pendingLoad{key: key, callbacks: []func(*LayoutDescriptor, error){fn}})
}

// Pending returns the number of queued loads.
func (s *LayoutStore) Pending() int {
	return len(s.pending)
}

// Update performs the queued loads and delivers them in queue order.
// Fetches issued by callbacks are queued for the next Update. Returns the
// number of loads completed.
func (s *LayoutStore) Update() int {
	if len(s.pending) == 0 {
		return 0
	}
	batch := s.pending
	s.pending = nil
	for _, p := range batch {
		d, err := s.load(p.key)
		switch {
		case err == nil:
			s.cache[p.key] = d
		case errors.Is(err, ErrLayoutNotFound):
			s.cache[p.key] = nil
		}
		for _, fn := range p.callbacks {
			fn(d, err)
		}
	}
	return len(batch)
}

func (s *LayoutStore) load(key string) (*LayoutDescriptor, error) {
	if s.loader == nil {
		return nil, fmt.Errorf("load layout %q: %w", key, ErrLayoutNotFound)
	}
	return s.loader.LoadLayout(key)
}
