package btree

import (
	"iter"

	"github.com/btree-query-bench/btreeidx/index"
	"github.com/cockroachdb/errors"
)

var _ index.Index = (*Index)(nil)

// Index exposes a Tree with int64 keys through index.Index.
type Index struct {
	tree *Tree[int64, []byte]
}

func NewIndex(order int) (*Index, error) {
	tree, err := New[int64, []byte](order)
	if err != nil {
		return nil, err
	}
	return &Index{tree: tree}, nil
}

// Tree returns the underlying tree.
func (x *Index) Tree() *Tree[int64, []byte] { return x.tree }

func (x *Index) Insert(key int64, value []byte) error {
	x.tree.Insert(key, value)
	return nil
}

func (x *Index) Get(key int64) ([]byte, bool, error) {
	v, ok := x.tree.Get(key)
	return v, ok, nil
}

// Delete removes key. Unlike Tree.Remove, deleting from an empty index
// reports index.ErrNotFound so every index.Index agrees on absent keys.
func (x *Index) Delete(key int64) error {
	if x.tree.Len() == 0 {
		return errors.Wrapf(index.ErrNotFound, "btree: key %d", key)
	}
	err := x.tree.Remove(key)
	if errors.Is(err, ErrKeyNotFound) {
		return errors.Wrapf(index.ErrNotFound, "btree: key %d", key)
	}
	return err
}

// Scan iterates the tree lazily. The index must not be modified until the
// iterator is closed.
func (x *Index) Scan() (index.Iterator, error) {
	next, stop := iter.Pull2(x.tree.All())
	return &scanIterator{next: next, stop: stop}, nil
}

// Verify checks the structure of the underlying tree.
func (x *Index) Verify() error { return x.tree.Verify() }

func (x *Index) Len() int     { return x.tree.Len() }
func (x *Index) Close() error { return nil }

type scanIterator struct {
	next func() (int64, []byte, bool)
	stop func()
	key  int64
	val  []byte
}

func (it *scanIterator) Next() bool {
	k, v, ok := it.next()
	if !ok {
		return false
	}
	it.key, it.val = k, v
	return true
}

func (it *scanIterator) Key() int64    { return it.key }
func (it *scanIterator) Value() []byte { return it.val }
func (it *scanIterator) Error() error  { return nil }
func (it *scanIterator) Close() error  { it.stop(); return nil }
