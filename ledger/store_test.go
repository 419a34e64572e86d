package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stardust-protocol/nft-settlement/common"
)

func openLedgers(t *testing.T) map[string]Ledger {
	t.Helper()
	badgerLedger, err := OpenBadger("", true)
	require.NoError(t, err)
	t.Cleanup(func() { badgerLedger.Close() })
	return map[string]Ledger{
		"memory": NewMemory(),
		"badger": badgerLedger,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, l := range openLedgers(t) {
		t.Run(name, func(t *testing.T) {
			err := l.Update(func(s Store) error {
				return s.Set([]byte("key"), []byte("value"))
			})
			require.NoError(t, err)

			err = l.View(func(s Store) error {
				value, err := s.Get([]byte("key"))
				require.NoError(t, err)
				assert.Equal(t, []byte("value"), value)

				ok, err := s.Has([]byte("key"))
				require.NoError(t, err)
				assert.True(t, ok)

				ok, err = s.Has([]byte("missing"))
				require.NoError(t, err)
				assert.False(t, ok)

				_, err = s.Get([]byte("missing"))
				assert.True(t, errors.Is(err, common.ErrNotFound))
				return nil
			})
			require.NoError(t, err)

			err = l.Update(func(s Store) error {
				return s.Delete([]byte("key"))
			})
			require.NoError(t, err)

			err = l.View(func(s Store) error {
				_, err := s.Get([]byte("key"))
				assert.True(t, errors.Is(err, common.ErrNotFound))
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	boom := errors.New("boom")
	for name, l := range openLedgers(t) {
		t.Run(name, func(t *testing.T) {
			err := l.Update(func(s Store) error {
				require.NoError(t, s.Set([]byte("a"), []byte("1")))
				return boom
			})
			assert.True(t, errors.Is(err, boom))

			err = l.View(func(s Store) error {
				ok, err := s.Has([]byte("a"))
				require.NoError(t, err)
				assert.False(t, ok, "failed update must leave no writes behind")
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestIterateAscendingWithPrefixAndStart(t *testing.T) {
	for name, l := range openLedgers(t) {
		t.Run(name, func(t *testing.T) {
			prefix := []byte("items/")
			err := l.Update(func(s Store) error {
				for _, id := range []uint64{5, 1, 9, 3, 7} {
					if err := s.Set(Uint64Key(prefix, id), []byte("x")); err != nil {
						return err
					}
				}
				// a key outside the prefix must not show up
				return s.Set([]byte("other/1"), []byte("y"))
			})
			require.NoError(t, err)

			collect := func(start []byte, max int) []uint64 {
				var ids []uint64
				err := l.View(func(s Store) error {
					return s.Iterate(prefix, start, func(key, _ []byte) bool {
						id, err := Uint64FromKey(prefix, key)
						require.NoError(t, err)
						ids = append(ids, id)
						return len(ids) < max
					})
				})
				require.NoError(t, err)
				return ids
			}

			assert.Equal(t, []uint64{1, 3, 5, 7, 9}, collect(nil, 10))
			assert.Equal(t, []uint64{5, 7, 9}, collect(Uint64Key(prefix, 4), 10))
			assert.Equal(t, []uint64{5, 7}, collect(Uint64Key(prefix, 5), 2))
		})
	}
}

func TestNextIDStrictlyIncreasing(t *testing.T) {
	for name, l := range openLedgers(t) {
		t.Run(name, func(t *testing.T) {
			for want := uint64(0); want < 10; want++ {
				err := l.Update(func(s Store) error {
					id, err := NextID(s)
					require.NoError(t, err)
					assert.Equal(t, want, id)
					return nil
				})
				require.NoError(t, err)
			}
		})
	}
}

func TestNextIDNotReusedAfterFailedUpdate(t *testing.T) {
	l := NewMemory()

	var first uint64
	require.NoError(t, l.Update(func(s Store) error {
		var err error
		first, err = NextID(s)
		return err
	}))

	// a failed call rolls the counter back with everything else
	boom := errors.New("boom")
	err := l.Update(func(s Store) error {
		_, err := NextID(s)
		require.NoError(t, err)
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	require.NoError(t, l.Update(func(s Store) error {
		id, err := NextID(s)
		require.NoError(t, err)
		assert.Equal(t, first+1, id)
		return nil
	}))
}

func TestGetSetJSON(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	l := NewMemory()
	require.NoError(t, l.Update(func(s Store) error {
		return SetJSON(s, []byte("p"), payload{Name: "a", Count: 3})
	}))

	var out payload
	require.NoError(t, l.View(func(s Store) error {
		return GetJSON(s, []byte("p"), &out)
	}))
	assert.Equal(t, payload{Name: "a", Count: 3}, out)
}
