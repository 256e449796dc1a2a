// Package btree implements an in-memory B-tree mapping unique, ordered keys
// to values.
//
// A tree of order m keeps between m and 2*m keys in every node except the
// root, and all leaves at the same depth. Insertion splits overflowing nodes
// on the way back up from the leaf; deletion repairs underflowing nodes by
// borrowing a key from a sibling or merging with it. All node surgery is
// performed by a parent on one of its children, so nodes carry no parent
// pointers.
//
// A Tree is not safe for concurrent use. Callers that share a tree between
// goroutines must serialize every mutating call against all other calls.
package btree

import (
	"cmp"
	"iter"
)

// Tree is a B-tree of order Order().
type Tree[K, V any] struct {
	root    *node[K, V]
	order   int
	count   int
	compare func(a, b K) int
}

// New returns an empty tree over naturally ordered keys.
func New[K cmp.Ordered, V any](order int) (*Tree[K, V], error) {
	return NewFunc[K, V](order, cmp.Compare[K])
}

// NewFunc returns an empty tree ordered by compare, which must define a total
// order and return a negative, zero or positive result like cmp.Compare.
func NewFunc[K, V any](order int, compare func(a, b K) int) (*Tree[K, V], error) {
	if order < 1 {
		return nil, ErrInvalidOrder
	}
	if compare == nil {
		return nil, ErrNilCompare
	}
	return &Tree[K, V]{
		root:    &node[K, V]{},
		order:   order,
		compare: compare,
	}, nil
}

func (t *Tree[K, V]) maxKeys() int { return 2 * t.order }

// Order returns the minimum number of keys of a non-root node.
func (t *Tree[K, V]) Order() int { return t.order }

// Len returns the number of keys in the tree.
func (t *Tree[K, V]) Len() int { return t.count }

// Get returns the value stored for key.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	if len(t.root.keys) == 0 {
		var zero V
		return zero, false
	}
	return t.lookup(t.root, key)
}

// Insert stores value under key, replacing any previous value.
func (t *Tree[K, V]) Insert(key K, value V) {
	t.insert(t.root, key, value)
	if len(t.root.keys) > t.maxKeys() {
		root := &node[K, V]{children: []*node[K, V]{t.root}}
		t.splitChild(root, 0)
		t.root = root
	}
}

// Remove deletes key from the tree. It returns an error wrapping
// ErrKeyNotFound if the tree holds keys but not this one, and nil without
// doing anything if the tree is empty.
func (t *Tree[K, V]) Remove(key K) error {
	if len(t.root.keys) == 0 {
		return nil
	}
	if err := t.remove(t.root, key); err != nil {
		return err
	}
	if len(t.root.keys) == 0 && !t.root.leaf() {
		t.root = t.root.children[0]
	}
	return nil
}

// Clear removes every key.
func (t *Tree[K, V]) Clear() {
	t.root = &node[K, V]{}
	t.count = 0
}

// All returns the key-value pairs in ascending key order. The tree must not
// be modified while the sequence is being iterated.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t.root.ascend(yield)
	}
}

// Keys returns the keys in ascending order.
func (t *Tree[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		t.root.ascend(func(k K, _ V) bool { return yield(k) })
	}
}

// Min returns the smallest key and its value.
func (t *Tree[K, V]) Min() (K, V, bool) {
	var (
		zk K
		zv V
	)
	if len(t.root.keys) == 0 {
		return zk, zv, false
	}
	n := t.root
	for !n.leaf() {
		n = n.children[0]
	}
	return n.keys[0], n.values[0], true
}

// Max returns the largest key and its value.
func (t *Tree[K, V]) Max() (K, V, bool) {
	var (
		zk K
		zv V
	)
	if len(t.root.keys) == 0 {
		return zk, zv, false
	}
	n := t.root
	for !n.leaf() {
		n = n.children[len(n.children)-1]
	}
	last := len(n.keys) - 1
	return n.keys[last], n.values[last], true
}

// Height returns the number of levels, 0 for an empty tree.
func (t *Tree[K, V]) Height() int {
	if len(t.root.keys) == 0 {
		return 0
	}
	h := 1
	for n := t.root; !n.leaf(); n = n.children[0] {
		h++
	}
	return h
}
