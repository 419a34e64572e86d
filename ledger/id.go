package ledger

import (
	"encoding/binary"
	"errors"

	"github.com/stardust-protocol/nft-settlement/common"
)

var keyUniqueId = []byte("unique_id")

// NextID allocates the next unique id from the counter shared by every
// engine on this ledger. It returns the counter's current value and stores
// value+1; ids are strictly increasing and never reused, even after the
// entity they named is gone.
func NextID(s Store) (uint64, error) {
	var cur uint64
	raw, err := s.Get(keyUniqueId)
	if err == nil {
		cur = binary.BigEndian.Uint64(raw)
	} else if !errors.Is(err, common.ErrNotFound) {
		return 0, err
	}

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, cur+1)
	if err := s.Set(keyUniqueId, next); err != nil {
		return 0, err
	}
	return cur, nil
}
