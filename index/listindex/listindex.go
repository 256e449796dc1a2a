// Package listindex is an unsorted slice-backed index. It is the linear
// baseline in benchmarks and a simple oracle in tests.
package listindex

import (
	"cmp"
	"slices"

	"github.com/btree-query-bench/btreeidx/index"
	"github.com/cockroachdb/errors"
)

var _ index.Index = (*ListIndex)(nil)

type Data struct {
	Key int64
	Val []byte
}

type ListIndex struct {
	Data []Data
}

func NewListIndex() *ListIndex {
	return &ListIndex{
		Data: make([]Data, 0),
	}
}

func (l *ListIndex) Insert(key int64, value []byte) error {
	for i := range l.Data {
		if l.Data[i].Key == key {
			l.Data[i].Val = value
			return nil
		}
	}
	l.Data = append(l.Data, Data{Key: key, Val: value})
	return nil
}

func (l *ListIndex) Get(key int64) ([]byte, bool, error) {
	for _, d := range l.Data {
		if d.Key == key {
			return d.Val, true, nil
		}
	}
	return nil, false, nil
}

func (l *ListIndex) Delete(key int64) error {
	for i, d := range l.Data {
		if d.Key == key {
			l.Data = slices.Delete(l.Data, i, i+1)
			return nil
		}
	}
	return errors.Wrapf(index.ErrNotFound, "listindex: key %d", key)
}

// Scan sorts a snapshot of the entries, so later writes do not affect an
// open iterator.
func (l *ListIndex) Scan() (index.Iterator, error) {
	data := slices.Clone(l.Data)
	slices.SortFunc(data, func(a, b Data) int { return cmp.Compare(a.Key, b.Key) })
	return &ListIterator{data: data, cur: -1}, nil
}

func (l *ListIndex) Len() int     { return len(l.Data) }
func (l *ListIndex) Close() error { return nil }

type ListIterator struct {
	data []Data
	cur  int
}

func (it *ListIterator) Next() bool {
	it.cur++
	return it.cur < len(it.data)
}

func (it *ListIterator) Key() int64    { return it.data[it.cur].Key }
func (it *ListIterator) Value() []byte { return it.data[it.cur].Val }
func (it *ListIterator) Error() error  { return nil }
func (it *ListIterator) Close() error  { return nil }
