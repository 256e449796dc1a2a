package btree

import (
	"slices"

	"github.com/cockroachdb/errors"
)

func (t *Tree[K, V]) remove(n *node[K, V], key K) error {
	i, found := t.find(n, key)
	if n.leaf() {
		if !found {
			return errors.Wrapf(ErrKeyNotFound, "key %v", key)
		}
		n.removeAt(i)
		t.count--
		return nil
	}
	if i >= len(n.children) {
		return inconsistent("cannot descend: child %d missing from node with %d keys", i, len(n.keys))
	}

	child := n.children[i]
	if found {
		// Replace the key with its in-order predecessor, taken from the
		// rightmost leaf under the left child.
		pk, pv, err := rightmost(child)
		if err != nil {
			return err
		}
		if err := t.remove(child, pk); err != nil {
			if errors.Is(err, ErrKeyNotFound) {
				return inconsistent("predecessor %v vanished from its subtree", pk)
			}
			return err
		}
		n.keys[i], n.values[i] = pk, pv
	} else if err := t.remove(child, key); err != nil {
		return err
	}

	if len(child.keys) < t.order {
		return t.rebalance(n, i)
	}
	return nil
}

func rightmost[K, V any](n *node[K, V]) (K, V, error) {
	for !n.leaf() {
		n = n.children[len(n.children)-1]
	}
	if len(n.keys) == 0 || len(n.values) != len(n.keys) {
		var (
			zk K
			zv V
		)
		return zk, zv, inconsistent("cannot take predecessor from leaf with %d keys and %d values", len(n.keys), len(n.values))
	}
	last := len(n.keys) - 1
	return n.keys[last], n.values[last], nil
}

// rebalance restores the minimum occupancy of the child at index i of parent
// by borrowing from a sibling with spare keys or, failing that, merging with
// one.
func (t *Tree[K, V]) rebalance(parent *node[K, V], i int) error {
	switch {
	case i > 0 && len(parent.children[i-1].keys) > t.order:
		return t.borrowLeft(parent, i)
	case i+1 < len(parent.children) && len(parent.children[i+1].keys) > t.order:
		return t.borrowRight(parent, i)
	case i > 0:
		return t.merge(parent, i-1)
	case i+1 < len(parent.children):
		return t.merge(parent, i)
	}
	return inconsistent("child %d has no sibling in a node with %d children", i, len(parent.children))
}

// siblings returns the two children around parent.keys[sep] after checking
// that they can exchange keys and children. Nothing is modified on error.
func siblings[K, V any](parent *node[K, V], sep int) (*node[K, V], *node[K, V], error) {
	if parent.leaf() {
		return nil, nil, inconsistent("cannot move children of a leaf")
	}
	if sep < 0 || sep >= len(parent.keys) || sep >= len(parent.values) || sep+1 >= len(parent.children) {
		return nil, nil, inconsistent("separator %d out of bounds for node with %d keys, %d values and %d children",
			sep, len(parent.keys), len(parent.values), len(parent.children))
	}
	left, right := parent.children[sep], parent.children[sep+1]
	if left.leaf() != right.leaf() {
		return nil, nil, inconsistent("siblings around separator %d disagree on being leaves", sep)
	}
	for _, n := range [...]*node[K, V]{left, right} {
		if len(n.values) != len(n.keys) {
			return nil, nil, inconsistent("node holds %d keys but %d values", len(n.keys), len(n.values))
		}
		if !n.leaf() && len(n.children) != len(n.keys)+1 {
			return nil, nil, inconsistent("node holds %d keys but %d children", len(n.keys), len(n.children))
		}
	}
	return left, right, nil
}

// borrowLeft rotates the last key of the left sibling through the separator
// into the front of child i.
func (t *Tree[K, V]) borrowLeft(parent *node[K, V], i int) error {
	left, child, err := siblings(parent, i-1)
	if err != nil {
		return err
	}
	if len(left.keys) == 0 {
		return inconsistent("cannot borrow from empty left sibling of child %d", i)
	}

	last := len(left.keys) - 1
	child.insertAt(0, parent.keys[i-1], parent.values[i-1])
	parent.keys[i-1], parent.values[i-1] = left.keys[last], left.values[last]
	if !left.leaf() {
		child.children = slices.Insert(child.children, 0, left.children[last+1])
	}
	left.truncate(last)
	return nil
}

// borrowRight rotates the first key of the right sibling through the
// separator onto the end of child i.
func (t *Tree[K, V]) borrowRight(parent *node[K, V], i int) error {
	child, right, err := siblings(parent, i)
	if err != nil {
		return err
	}
	if len(right.keys) == 0 {
		return inconsistent("cannot borrow from empty right sibling of child %d", i)
	}

	child.keys = append(child.keys, parent.keys[i])
	child.values = append(child.values, parent.values[i])
	parent.keys[i], parent.values[i] = right.keys[0], right.values[0]
	right.removeAt(0)
	if !right.leaf() {
		child.children = append(child.children, right.children[0])
		right.children = slices.Delete(right.children, 0, 1)
	}
	return nil
}

// merge folds parent.keys[sep] and the child to its right into the child to
// its left, dropping both from parent.
func (t *Tree[K, V]) merge(parent *node[K, V], sep int) error {
	left, right, err := siblings(parent, sep)
	if err != nil {
		return err
	}

	left.keys = append(left.keys, parent.keys[sep])
	left.values = append(left.values, parent.values[sep])
	left.keys = append(left.keys, right.keys...)
	left.values = append(left.values, right.values...)
	if !left.leaf() {
		left.children = append(left.children, right.children...)
	}

	parent.removeAt(sep)
	parent.children = slices.Delete(parent.children, sep+1, sep+2)
	return nil
}
