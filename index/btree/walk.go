package btree

import "slices"

// Walk calls fn for every node in pre-order with the node's depth (0 for the
// root) and a copy of its keys. Walking stops when fn returns false.
func (t *Tree[K, V]) Walk(fn func(depth int, keys []K) bool) {
	walk(t.root, 0, fn)
}

func walk[K, V any](n *node[K, V], depth int, fn func(int, []K) bool) bool {
	if !fn(depth, slices.Clone(n.keys)) {
		return false
	}
	for _, c := range n.children {
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}
