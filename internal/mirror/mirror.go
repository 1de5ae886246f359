// Package mirror is the client's local copy of the catalog. Every read and
// write is answered from the kv store immediately; writes are then handed
// to a Propagator, which forwards them to the server without blocking.
package mirror

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/01moynul/souq-catalog/internal/kvstore"
	"github.com/01moynul/souq-catalog/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage keys. These are shared with older clients and must not change.
const (
	KeyProducts   = "cms_products"
	KeyCategories = "cms_categories"
	KeyOrders     = "cms_orders"
	KeySettings   = "cms_settings"
	KeySeeded     = "seeded"
	KeyLang       = "lang"
	KeyCart       = "cart"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrPartialReorder = errors.New("reorder ids do not match the collection")
	ErrDuplicateSlug  = errors.New("slug already used by another product")
	ErrOrderExists    = errors.New("order already placed")
	ErrInvalidOrder   = errors.New("invalid order")
)

// Direction for Move.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Store is the local mirror. Construct one per application run with New
// and Close it at shutdown.
type Store struct {
	mu   sync.Mutex
	kv   kvstore.Store
	prop Propagator
	log  *zap.Logger

	now   func() time.Time
	newID func() string
}

// New wires a mirror over kv. prop may be nil for an offline mirror.
func New(kv kvstore.Store, prop Propagator, log *zap.Logger) *Store {
	if prop == nil {
		prop = NopPropagator{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		kv:    kv,
		prop:  prop,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// SetPropagator swaps the propagation target. Used at startup when the
// propagator itself needs the store.
func (s *Store) SetPropagator(p Propagator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		p = NopPropagator{}
	}
	s.prop = p
}

// Close releases the underlying storage.
func (s *Store) Close() error {
	return s.kv.Close()
}

// load decodes key into a value of type T. A missing key yields fallback;
// an undecodable blob is logged and also yields fallback.
func load[T any](s *Store, key string, fallback T) (T, error) {
	raw, ok, err := s.kv.Get(key)
	if err != nil {
		return fallback, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return fallback, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn("discarding unreadable local data", zap.String("key", key), zap.Error(err))
		return fallback, nil
	}
	return v, nil
}

func (s *Store) put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Put(key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Seeded reports whether bootstrap already ran for this client.
func (s *Store) Seeded() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load(s, KeySeeded, false)
}

// MarkSeeded persists the bootstrap flag.
func (s *Store) MarkSeeded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(KeySeeded, true)
}

// ClearSeeded makes the next bootstrap run again.
func (s *Store) ClearSeeded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(KeySeeded)
}

// Language returns the persisted display language, DefaultLang if unset.
func (s *Store) Language() (models.Lang, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := load(s, KeyLang, models.DefaultLang)
	if err != nil {
		return models.DefaultLang, err
	}
	if l != models.LangAR && l != models.LangEN {
		return models.DefaultLang, nil
	}
	return l, nil
}

// SetLanguage persists the display language.
func (s *Store) SetLanguage(l models.Lang) error {
	if l != models.LangAR && l != models.LangEN {
		return fmt.Errorf("unsupported language %q", l)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(KeyLang, l)
}
