package cache

import (
	"errors"
	"sync"
)

// ErrNoSpace is returned by a backend whose capacity is exhausted.
var ErrNoSpace = errors.New("cache: backend out of space")

// MemoryOption customises a MemoryBackend.
type MemoryOption func(*MemoryBackend)

// WithMaxBytes caps the total payload size held by the backend. Writes that
// would exceed the cap fail with ErrNoSpace, which drives the Cache eviction
// path. Zero means unlimited.
func WithMaxBytes(n int) MemoryOption {
	return func(b *MemoryBackend) {
		b.maxBytes = n
	}
}

// MemoryBackend keeps entries in process memory. It is the default backend
// and the one used by tests.
type MemoryBackend struct {
	mu       sync.Mutex
	entries  map[string][]byte
	maxBytes int
}

// NewMemoryBackend builds an in-memory backend.
func NewMemoryBackend(opts ...MemoryOption) *MemoryBackend {
	b := &MemoryBackend{entries: map[string][]byte{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load returns the stored blob for a domain.
func (b *MemoryBackend) Load(domain string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	blob, ok := b.entries[domain]
	if !ok {
		return nil, false, nil
	}
	return blob, true, nil
}

// Store saves the blob, enforcing the optional byte cap.
func (b *MemoryBackend) Store(domain string, blob []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxBytes > 0 {
		total := len(blob)
		for key, existing := range b.entries {
			if key == domain {
				continue
			}
			total += len(existing)
		}
		if total > b.maxBytes {
			return ErrNoSpace
		}
	}

	cpy := make([]byte, len(blob))
	copy(cpy, blob)
	b.entries[domain] = cpy
	return nil
}

// Remove deletes the domain's blob.
func (b *MemoryBackend) Remove(domain string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, domain)
	return nil
}

// Domains lists every stored domain.
func (b *MemoryBackend) Domains() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	domains := make([]string, 0, len(b.entries))
	for domain := range b.entries {
		domains = append(domains, domain)
	}
	return domains, nil
}
