package ledger

import (
	"bytes"
	"errors"

	badger "github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"

	"github.com/stardust-protocol/nft-settlement/common"
)

// badgerLedger backs the shared ledger with an embedded badger database.
// Badger transactions provide the all-or-nothing call application the
// engines rely on.
type badgerLedger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a badger-backed ledger at path. With
// inMemory set the ledger lives only for the process lifetime.
func OpenBadger(path string, inMemory bool) (Ledger, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	log.Debug("[LEDGER] Opened badger ledger at: ", path)
	return &badgerLedger{db: db}, nil
}

func (l *badgerLedger) View(fn func(Store) error) error {
	return l.db.View(func(txn *badger.Txn) error {
		return fn(&badgerStore{txn: txn})
	})
}

func (l *badgerLedger) Update(fn func(Store) error) error {
	return l.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerStore{txn: txn})
	})
}

func (l *badgerLedger) Close() error {
	log.Debug("[LEDGER] Closing badger ledger")
	return l.db.Close()
}

type badgerStore struct {
	txn *badger.Txn
}

func (s *badgerStore) Get(key []byte) ([]byte, error) {
	item, err := s.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, common.ErrNotFound.Wrapf("key %q", key)
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (s *badgerStore) Has(key []byte) (bool, error) {
	_, err := s.txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *badgerStore) Set(key, value []byte) error {
	return s.txn.Set(key, value)
}

func (s *badgerStore) Delete(key []byte) error {
	return s.txn.Delete(key)
}

func (s *badgerStore) Iterate(prefix, start []byte, fn func(key, value []byte) bool) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := s.txn.NewIterator(opts)
	defer it.Close()

	seek := prefix
	if start != nil && bytes.Compare(start, prefix) > 0 {
		seek = start
	}
	for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if !fn(item.KeyCopy(nil), value) {
			break
		}
	}
	return nil
}
