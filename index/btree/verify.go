package btree

// Verify checks every structural invariant of the tree: sorted unique keys,
// separator bounds, occupancy limits, equal leaf depth and the key count.
// Any violation is reported as an error wrapping ErrStructuralInconsistency.
func (t *Tree[K, V]) Verify() error {
	v := verifier[K, V]{tree: t, leafDepth: -1}
	if err := v.walk(t.root, 0, nil, nil); err != nil {
		return err
	}
	if v.keys != t.count {
		return inconsistent("count is %d but %d keys are reachable", t.count, v.keys)
	}
	return nil
}

type verifier[K, V any] struct {
	tree      *Tree[K, V]
	leafDepth int
	keys      int
}

// walk checks n, whose keys must lie strictly between lo and hi when those
// bounds are set.
func (v *verifier[K, V]) walk(n *node[K, V], depth int, lo, hi *K) error {
	t := v.tree
	if n == nil {
		return inconsistent("nil node at depth %d", depth)
	}
	if len(n.values) != len(n.keys) {
		return inconsistent("node at depth %d has %d keys but %d values", depth, len(n.keys), len(n.values))
	}
	if len(n.keys) > t.maxKeys() {
		return inconsistent("node at depth %d has %d keys, more than %d", depth, len(n.keys), t.maxKeys())
	}
	if depth > 0 && len(n.keys) < t.order {
		return inconsistent("node at depth %d has %d keys, fewer than %d", depth, len(n.keys), t.order)
	}
	for i, k := range n.keys {
		if i > 0 && t.compare(n.keys[i-1], k) >= 0 {
			return inconsistent("keys %v and %v at depth %d are out of order", n.keys[i-1], k, depth)
		}
		if lo != nil && t.compare(*lo, k) >= 0 {
			return inconsistent("key %v at depth %d is not above separator %v", k, depth, *lo)
		}
		if hi != nil && t.compare(k, *hi) >= 0 {
			return inconsistent("key %v at depth %d is not below separator %v", k, depth, *hi)
		}
	}
	v.keys += len(n.keys)

	if n.leaf() {
		if v.leafDepth < 0 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return inconsistent("leaf at depth %d, expected %d", depth, v.leafDepth)
		}
		return nil
	}
	if len(n.children) != len(n.keys)+1 {
		return inconsistent("node at depth %d has %d keys but %d children", depth, len(n.keys), len(n.children))
	}
	for i, c := range n.children {
		clo, chi := lo, hi
		if i > 0 {
			clo = &n.keys[i-1]
		}
		if i < len(n.keys) {
			chi = &n.keys[i]
		}
		if err := v.walk(c, depth+1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}
