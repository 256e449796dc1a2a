package btree

import "slices"

// node holds up to 2*order keys with their values. children is nil for a
// leaf and has exactly len(keys)+1 entries otherwise.
type node[K, V any] struct {
	keys     []K
	values   []V
	children []*node[K, V]
}

func (n *node[K, V]) leaf() bool { return n.children == nil }

func (n *node[K, V]) insertAt(i int, key K, value V) {
	n.keys = slices.Insert(n.keys, i, key)
	n.values = slices.Insert(n.values, i, value)
}

func (n *node[K, V]) removeAt(i int) {
	n.keys = slices.Delete(n.keys, i, i+1)
	n.values = slices.Delete(n.values, i, i+1)
}

// truncate keeps keys [0, i) and, for internal nodes, children [0, i].
// Vacated slots are zeroed so detached subtrees and values can be collected.
func (n *node[K, V]) truncate(i int) {
	clear(n.keys[i:])
	n.keys = n.keys[:i]
	clear(n.values[i:])
	n.values = n.values[:i]
	if !n.leaf() {
		clear(n.children[i+1:])
		n.children = n.children[:i+1]
	}
}

// ascend visits the subtree rooted at n in key order and reports whether the
// walk should continue.
func (n *node[K, V]) ascend(yield func(K, V) bool) bool {
	for i := range n.keys {
		if !n.leaf() && !n.children[i].ascend(yield) {
			return false
		}
		if !yield(n.keys[i], n.values[i]) {
			return false
		}
	}
	if n.leaf() {
		return true
	}
	return n.children[len(n.keys)].ascend(yield)
}

// find returns the position of key in n, or the index of the child whose
// range brackets it.
func (t *Tree[K, V]) find(n *node[K, V], key K) (int, bool) {
	return slices.BinarySearchFunc(n.keys, key, t.compare)
}

func (t *Tree[K, V]) lookup(n *node[K, V], key K) (V, bool) {
	i, found := t.find(n, key)
	if found {
		return n.values[i], true
	}
	if n.leaf() {
		var zero V
		return zero, false
	}
	return t.lookup(n.children[i], key)
}

func (t *Tree[K, V]) insert(n *node[K, V], key K, value V) {
	i, found := t.find(n, key)
	if found {
		n.values[i] = value
		return
	}
	if n.leaf() {
		n.insertAt(i, key, value)
		t.count++
		return
	}
	t.insert(n.children[i], key, value)
	if len(n.children[i].keys) > t.maxKeys() {
		t.splitChild(n, i)
	}
}

// splitChild splits the overflowing child at index i of parent. The child's
// middle key moves up into parent at i; the keys after it move into a new
// right sibling placed at i+1.
func (t *Tree[K, V]) splitChild(parent *node[K, V], i int) {
	child := parent.children[i]
	mid := len(child.keys) / 2

	right := &node[K, V]{
		keys:   slices.Clone(child.keys[mid+1:]),
		values: slices.Clone(child.values[mid+1:]),
	}
	if !child.leaf() {
		right.children = slices.Clone(child.children[mid+1:])
	}

	parent.insertAt(i, child.keys[mid], child.values[mid])
	parent.children = slices.Insert(parent.children, i+1, right)
	child.truncate(mid)
}
