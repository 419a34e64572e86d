package ledger

import (
	"encoding/binary"
	"encoding/json"

	"github.com/stardust-protocol/nft-settlement/common"
)

// Store is one consistent view of the shared ledger. Keys are raw bytes;
// Iterate walks them in ascending byte order.
type Store interface {
	// Get returns the value at key, or common.ErrNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	// Iterate visits every key with the given prefix, ascending, starting
	// at start (inclusive) when start is non-nil. fn returns false to stop.
	Iterate(prefix, start []byte, fn func(key, value []byte) bool) error
}

// Ledger hands out transactional views of the store. Update applies the
// callback's writes all-or-nothing: if the callback errors, no mutation is
// observable afterwards. Calls are serialized by the host; the ledger only
// has to keep a failed call from leaving partial writes behind.
type Ledger interface {
	View(fn func(Store) error) error
	Update(fn func(Store) error) error
	Close() error
}

// GetJSON loads and decodes the JSON value at key.
func GetJSON(s Store, key []byte, out interface{}) error {
	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// SetJSON encodes v as JSON and stores it at key.
func SetJSON(s Store, key []byte, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, raw)
}

// Uint64Key appends the big-endian encoding of id to prefix, so numeric ids
// iterate in ascending order.
func Uint64Key(prefix []byte, id uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], id)
	return key
}

// Uint64FromKey decodes the trailing 8 bytes of key written by Uint64Key.
func Uint64FromKey(prefix, key []byte) (uint64, error) {
	if len(key) != len(prefix)+8 {
		return 0, common.ErrInvalidInput.Wrapf("malformed key %q", key)
	}
	return binary.BigEndian.Uint64(key[len(prefix):]), nil
}
