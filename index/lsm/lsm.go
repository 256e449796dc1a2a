// Package lsm wraps Pebble (CockroachDB's LSM storage engine) behind the
// common Index interface so it can be benchmarked alongside the B-tree and
// used as a reference implementation in tests.
package lsm

import (
	"encoding/binary"

	"github.com/btree-query-bench/btreeidx/index"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var _ index.Index = (*LSM)(nil)

// Options configures the Pebble instance.
type Options struct {
	// Dir is the database directory. Empty keeps everything in memory.
	Dir string
	// MemTableSize in bytes; zero uses 16 MB.
	MemTableSize uint64
}

type LSM struct {
	db    *pebble.DB
	count int
}

// Open opens (or creates) a Pebble database.
func Open(o Options) (*LSM, error) {
	if o.MemTableSize == 0 {
		o.MemTableSize = 16 << 20
	}
	opts := &pebble.Options{
		MemTableSize: o.MemTableSize,
		// Keep 2 memtables so one can be flushed while the other is active.
		MemTableStopWritesThreshold: 4,
		// L0 compaction trigger.
		L0CompactionThreshold: 4,
		L0StopWritesThreshold: 12,
	}
	dir := o.Dir
	if dir == "" {
		opts.FS = vfs.NewMem()
		dir = "lsm"
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, errors.Wrap(err, "lsm: open")
	}
	l := &LSM{db: db}
	if o.Dir != "" {
		if l.count, err = l.countKeys(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return l, nil
}

// Close cleanly shuts down Pebble, flushing any in-memory state.
func (l *LSM) Close() error {
	return l.db.Close()
}

// Insert inserts or updates the value for key.
func (l *LSM) Insert(key int64, value []byte) error {
	_, found, err := l.Get(key)
	if err != nil {
		return err
	}
	if err := l.db.Set(encodeKey(key), value, pebble.NoSync); err != nil {
		return errors.Wrap(err, "lsm: set")
	}
	if !found {
		l.count++
	}
	return nil
}

// Get retrieves the value for key.
func (l *LSM) Get(key int64) ([]byte, bool, error) {
	val, closer, err := l.db.Get(encodeKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "lsm: get")
	}
	// val is only valid until closer.Close(), so we copy it.
	result := make([]byte, len(val))
	copy(result, val)
	if err := closer.Close(); err != nil {
		return nil, false, errors.Wrap(err, "lsm: get")
	}
	return result, true, nil
}

// Delete removes the key from the store.
func (l *LSM) Delete(key int64) error {
	_, found, err := l.Get(key)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(index.ErrNotFound, "lsm: key %d", key)
	}
	if err := l.db.Delete(encodeKey(key), pebble.NoSync); err != nil {
		return errors.Wrap(err, "lsm: delete")
	}
	l.count--
	return nil
}

// Scan returns an iterator over all keys.
func (l *LSM) Scan() (index.Iterator, error) {
	iter, err := l.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "lsm: scan")
	}
	iter.First()
	return &rangeIterator{iter: iter, first: true}, nil
}

func (l *LSM) Len() int { return l.count }

func (l *LSM) countKeys() (int, error) {
	it, err := l.Scan()
	if err != nil {
		return 0, err
	}
	n := 0
	for it.Next() {
		n++
	}
	if err := it.Error(); err != nil {
		_ = it.Close()
		return 0, err
	}
	return n, it.Close()
}

// ─── Key encoding ─────────────────────────────────────────────────────────────

// encodeKey encodes an int64 as a big-endian 8-byte slice with the sign bit
// flipped, so byte order matches signed integer order.
func encodeKey(k int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(k)^(1<<63))
	return b
}

func decodeKey(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b) ^ (1 << 63))
}

// ─── Iterator ─────────────────────────────────────────────────────────────────

type rangeIterator struct {
	iter  *pebble.Iterator
	first bool
	key   int64
	val   []byte
	err   error
}

func (it *rangeIterator) Next() bool {
	var valid bool
	if it.first {
		// iter.First() was already called in Scan(); just check validity.
		it.first = false
		valid = it.iter.Valid()
	} else {
		valid = it.iter.Next()
	}
	if !valid {
		return false
	}
	k := it.iter.Key()
	if len(k) != 8 {
		it.err = errors.Newf("lsm: unexpected key length %d", len(k))
		return false
	}
	it.key = decodeKey(k)
	// Copy value; Pebble reuses the buffer on Next().
	v := it.iter.Value()
	it.val = make([]byte, len(v))
	copy(it.val, v)
	return true
}

func (it *rangeIterator) Key() int64    { return it.key }
func (it *rangeIterator) Value() []byte { return it.val }

func (it *rangeIterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.iter.Error()
}

func (it *rangeIterator) Close() error { return it.iter.Close() }
