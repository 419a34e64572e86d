package ledger

import (
	"bytes"
	"sort"
	"sync"

	"github.com/stardust-protocol/nft-settlement/common"
)

// memoryLedger is a map-backed ledger used by engine tests. Update stages
// writes against a copy of the map and swaps it in only on success, so the
// rollback semantics match the badger ledger.
type memoryLedger struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() Ledger {
	return &memoryLedger{data: map[string][]byte{}}
}

func (l *memoryLedger) View(fn func(Store) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(&memoryStore{data: l.data})
}

func (l *memoryLedger) Update(fn func(Store) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	staged := make(map[string][]byte, len(l.data))
	for k, v := range l.data {
		staged[k] = v
	}
	if err := fn(&memoryStore{data: staged}); err != nil {
		return err
	}
	l.data = staged
	return nil
}

func (l *memoryLedger) Close() error {
	return nil
}

type memoryStore struct {
	data map[string][]byte
}

func (s *memoryStore) Get(key []byte) ([]byte, error) {
	value, ok := s.data[string(key)]
	if !ok {
		return nil, common.ErrNotFound.Wrapf("key %q", key)
	}
	return value, nil
}

func (s *memoryStore) Has(key []byte) (bool, error) {
	_, ok := s.data[string(key)]
	return ok, nil
}

func (s *memoryStore) Set(key, value []byte) error {
	s.data[string(key)] = value
	return nil
}

func (s *memoryStore) Delete(key []byte) error {
	delete(s.data, string(key))
	return nil
}

func (s *memoryStore) Iterate(prefix, start []byte, fn func(key, value []byte) bool) error {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if !bytes.HasPrefix([]byte(k), prefix) {
			continue
		}
		if start != nil && bytes.Compare([]byte(k), start) < 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !fn([]byte(k), s.data[k]) {
			break
		}
	}
	return nil
}
