package btree

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntTree(t *testing.T, order int, keys ...int) *Tree[int, int] {
	t.Helper()
	tr, err := New[int, int](order)
	require.NoError(t, err)
	for _, k := range keys {
		tr.Insert(k, k*10)
	}
	require.NoError(t, tr.Verify())
	return tr
}

// shape renders every node as "depth:[keys]" in pre-order.
func shape[K, V any](tr *Tree[K, V]) []string {
	var out []string
	tr.Walk(func(depth int, keys []K) bool {
		out = append(out, fmt.Sprintf("%d:%v", depth, keys))
		return true
	})
	return out
}

func collectKeys[K, V any](tr *Tree[K, V]) []K {
	var out []K
	for k := range tr.Keys() {
		out = append(out, k)
	}
	return out
}

// =============================================================================
// Construction
// =============================================================================

func TestNewRejectsInvalidOrder(t *testing.T) {
	for _, order := range []int{0, -1, -100} {
		tr, err := New[int, int](order)
		assert.ErrorIs(t, err, ErrInvalidOrder, "order %d", order)
		assert.Nil(t, tr)
	}
}

func TestNewFuncRejectsNilCompare(t *testing.T) {
	tr, err := NewFunc[int, int](2, nil)
	assert.ErrorIs(t, err, ErrNilCompare)
	assert.Nil(t, tr)
}

func TestEmptyTree(t *testing.T) {
	tr := newIntTree(t, 2)

	_, ok := tr.Get(1)
	assert.False(t, ok)
	assert.NoError(t, tr.Remove(1), "removing from an empty tree is a no-op")
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0, tr.Height())
	assert.Equal(t, 2, tr.Order())
	_, _, ok = tr.Min()
	assert.False(t, ok)
	_, _, ok = tr.Max()
	assert.False(t, ok)
	assert.Empty(t, collectKeys(tr))
	assert.Equal(t, []string{"0:[]"}, shape(tr))
	assert.NoError(t, tr.Verify())
}

// =============================================================================
// Insertion
// =============================================================================

func TestInsertScenarioSplitsRootOnce(t *testing.T) {
	tr := newIntTree(t, 2, 15, 3, 14, 6, 12)
	assert.Equal(t, []string{"0:[12]", "1:[3 6]", "1:[14 15]"}, shape(tr))

	tr.Insert(1, 10)
	tr.Insert(17, 170)
	require.NoError(t, tr.Verify())

	assert.Equal(t, []string{"0:[12]", "1:[1 3 6]", "1:[14 15 17]"}, shape(tr))
	assert.Equal(t, 7, tr.Len())
	assert.Equal(t, 2, tr.Height())
}

func TestInsertOrderOneSplitsAtThreeKeys(t *testing.T) {
	tr := newIntTree(t, 1, 1, 2)
	assert.Equal(t, []string{"0:[1 2]"}, shape(tr))

	tr.Insert(3, 30)
	assert.Equal(t, []string{"0:[2]", "1:[1]", "1:[3]"}, shape(tr))

	tr.Insert(4, 40)
	tr.Insert(5, 50)
	assert.Equal(t, []string{"0:[2 4]", "1:[1]", "1:[3]", "1:[5]"}, shape(tr))

	tr.Insert(6, 60)
	tr.Insert(7, 70)
	require.NoError(t, tr.Verify())
	assert.Equal(t, []string{"0:[4]", "1:[2]", "2:[1]", "2:[3]", "1:[6]", "2:[5]", "2:[7]"}, shape(tr))
	assert.Equal(t, 3, tr.Height())
}

func TestInsertGetRoundTrip(t *testing.T) {
	for order := 1; order <= 4; order++ {
		t.Run(fmt.Sprintf("order=%d", order), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(uint64(order), 7))
			keys := rng.Perm(500)

			tr := newIntTree(t, order, keys...)
			assert.Equal(t, len(keys), tr.Len())
			for _, k := range keys {
				v, ok := tr.Get(k)
				require.True(t, ok, "key %d", k)
				assert.Equal(t, k*10, v)
			}
			_, ok := tr.Get(-1)
			assert.False(t, ok)
			_, ok = tr.Get(500)
			assert.False(t, ok)
		})
	}
}

func TestInsertOverwrites(t *testing.T) {
	tr := newIntTree(t, 2, 15, 3, 14, 6, 12, 1, 17)
	before := shape(tr)

	// 12 sits in the root, 6 in a leaf.
	tr.Insert(12, -1)
	tr.Insert(6, -2)

	assert.Equal(t, 7, tr.Len())
	assert.Equal(t, before, shape(tr))
	v, _ := tr.Get(12)
	assert.Equal(t, -1, v)
	v, _ = tr.Get(6)
	assert.Equal(t, -2, v)
}

func TestKeysAscendRegardlessOfInsertOrder(t *testing.T) {
	var desc []int
	for k := 300; k > 0; k-- {
		desc = append(desc, k)
	}
	tr := newIntTree(t, 3, desc...)

	got := collectKeys(tr)
	assert.Len(t, got, 300)
	assert.True(t, slices.IsSorted(got))
	assert.Equal(t, 1, got[0])
	assert.Equal(t, 300, got[len(got)-1])
}

func TestAllPairsAndEarlyStop(t *testing.T) {
	tr := newIntTree(t, 2, 5, 1, 4, 2, 3, 9, 8, 7, 6)

	for k, v := range tr.All() {
		assert.Equal(t, k*10, v)
	}

	var seen []int
	for k := range tr.All() {
		if k > 3 {
			break
		}
		seen = append(seen, k)
	}
	assert.Equal(t, []int{1, 2, 3}, seen)

	// Each call starts a fresh traversal.
	assert.Equal(t, collectKeys(tr), collectKeys(tr))
}

func TestMinMax(t *testing.T) {
	tr := newIntTree(t, 1, 50, 20, 80, 10, 90, 30, 70)

	k, v, ok := tr.Min()
	require.True(t, ok)
	assert.Equal(t, 10, k)
	assert.Equal(t, 100, v)

	k, v, ok = tr.Max()
	require.True(t, ok)
	assert.Equal(t, 90, k)
	assert.Equal(t, 900, v)
}

func TestClear(t *testing.T) {
	tr := newIntTree(t, 2, 1, 2, 3, 4, 5, 6, 7, 8)
	tr.Clear()

	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0, tr.Height())
	assert.Equal(t, 2, tr.Order())
	assert.NoError(t, tr.Verify())

	tr.Insert(4, 40)
	v, ok := tr.Get(4)
	assert.True(t, ok)
	assert.Equal(t, 40, v)
}

func TestNewFuncCustomOrdering(t *testing.T) {
	byLength := func(a, b string) int {
		if c := len(a) - len(b); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	}
	tr, err := NewFunc[string, int](1, byLength)
	require.NoError(t, err)

	for i, w := range []string{"pear", "fig", "banana", "kiwi", "apple", "plum", "date"} {
		tr.Insert(w, i)
	}
	require.NoError(t, tr.Verify())
	assert.Equal(t, []string{"fig", "date", "kiwi", "pear", "plum", "apple", "banana"}, collectKeys(tr))

	require.NoError(t, tr.Remove("kiwi"))
	assert.Equal(t, []string{"fig", "date", "pear", "plum", "apple", "banana"}, collectKeys(tr))
	require.NoError(t, tr.Verify())
}

// =============================================================================
// Removal
// =============================================================================

func TestRemoveScenario(t *testing.T) {
	tr := newIntTree(t, 2, 15, 3, 14, 6, 12, 1, 17)

	require.NoError(t, tr.Remove(3))
	require.NoError(t, tr.Verify())

	assert.Equal(t, []string{"0:[12]", "1:[1 6]", "1:[14 15 17]"}, shape(tr))
	assert.Equal(t, 6, tr.Len())
	_, ok := tr.Get(3)
	assert.False(t, ok)
}

func TestRemoveInternalKeyUsesPredecessor(t *testing.T) {
	tr := newIntTree(t, 2, 15, 3, 14, 6, 12, 1, 17)

	require.NoError(t, tr.Remove(12))
	require.NoError(t, tr.Verify())

	assert.Equal(t, []string{"0:[6]", "1:[1 3]", "1:[14 15 17]"}, shape(tr))
	v, ok := tr.Get(6)
	require.True(t, ok)
	assert.Equal(t, 60, v, "predecessor keeps its own value")
}

func TestRemoveBorrowsFromLeftSibling(t *testing.T) {
	tr := newIntTree(t, 2, 15, 3, 14, 6, 12, 1, 17)

	require.NoError(t, tr.Remove(14))
	require.NoError(t, tr.Remove(15))
	require.NoError(t, tr.Verify())

	assert.Equal(t, []string{"0:[6]", "1:[1 3]", "1:[12 17]"}, shape(tr))
	v, _ := tr.Get(12)
	assert.Equal(t, 120, v)
}

func TestRemoveBorrowsFromRightSibling(t *testing.T) {
	tr := newIntTree(t, 2, 15, 3, 14, 6, 12, 1, 17)

	require.NoError(t, tr.Remove(1))
	require.NoError(t, tr.Remove(3))
	require.NoError(t, tr.Verify())

	assert.Equal(t, []string{"0:[14]", "1:[6 12]", "1:[15 17]"}, shape(tr))
}

func TestRemoveMergeCollapsesRoot(t *testing.T) {
	tr := newIntTree(t, 2, 15, 3, 14, 6, 12, 1, 17)

	require.NoError(t, tr.Remove(1))
	require.NoError(t, tr.Remove(14))
	assert.Equal(t, []string{"0:[12]", "1:[3 6]", "1:[15 17]"}, shape(tr))

	require.NoError(t, tr.Remove(15))
	require.NoError(t, tr.Verify())

	assert.Equal(t, []string{"0:[3 6 12 17]"}, shape(tr))
	assert.Equal(t, 1, tr.Height())
	assert.Equal(t, 4, tr.Len())
}

func TestRemoveMergesIntoRightSibling(t *testing.T) {
	tr := newIntTree(t, 2, 15, 3, 14, 6, 12, 1, 17)

	require.NoError(t, tr.Remove(17))
	require.NoError(t, tr.Remove(1))
	assert.Equal(t, []string{"0:[12]", "1:[3 6]", "1:[14 15]"}, shape(tr))

	// Leftmost child underflows and only has a right sibling at minimum size.
	require.NoError(t, tr.Remove(3))
	require.NoError(t, tr.Verify())
	assert.Equal(t, []string{"0:[6 12 14 15]"}, shape(tr))
}

func TestRemoveInternalRebalancing(t *testing.T) {
	// Three levels with order 1 so that borrows and merges move children.
	tr := newIntTree(t, 1, 1, 2, 3, 4, 5, 6, 7)
	require.Equal(t, 3, tr.Height())

	require.NoError(t, tr.Remove(1))
	require.NoError(t, tr.Verify())
	assert.Equal(t, []string{"0:[4 6]", "1:[2 3]", "1:[5]", "1:[7]"}, shape(tr))

	tr.Insert(8, 80)
	tr.Insert(9, 90)
	require.NoError(t, tr.Verify())

	for _, k := range []int{5, 7, 9, 2} {
		require.NoError(t, tr.Remove(k), "remove %d", k)
		require.NoError(t, tr.Verify(), "after removing %d", k)
	}
	assert.Equal(t, []int{3, 4, 6, 8}, collectKeys(tr))
}

func TestRemoveAbsentKeyLeavesTreeUnchanged(t *testing.T) {
	tr := newIntTree(t, 2, 15, 3, 14, 6, 12, 1, 17)
	before := shape(tr)

	for _, k := range []int{0, 2, 13, 16, 99} {
		err := tr.Remove(k)
		assert.ErrorIs(t, err, ErrKeyNotFound, "key %d", k)
		assert.False(t, errors.Is(err, ErrStructuralInconsistency))
	}
	assert.Equal(t, before, shape(tr))
	assert.Equal(t, 7, tr.Len())
	assert.NoError(t, tr.Verify())
}

func TestRemoveEverything(t *testing.T) {
	for order := 1; order <= 3; order++ {
		t.Run(fmt.Sprintf("order=%d", order), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(42, uint64(order)))
			tr := newIntTree(t, order, rng.Perm(1000)...)

			for i, k := range rng.Perm(1000) {
				require.NoError(t, tr.Remove(k), "remove %d", k)
				assert.Equal(t, 999-i, tr.Len())
				if i%50 == 0 {
					require.NoError(t, tr.Verify())
				}
			}
			assert.Equal(t, 0, tr.Height())
			assert.Equal(t, []string{"0:[]"}, shape(tr))
			assert.NoError(t, tr.Remove(3), "tree is empty again")
		})
	}
}

// =============================================================================
// Randomized sequences against a map model
// =============================================================================

func TestRandomOperationsMatchMap(t *testing.T) {
	for order := 1; order <= 5; order++ {
		t.Run(fmt.Sprintf("order=%d", order), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(uint64(order), 99))
			tr := newIntTree(t, order)
			model := make(map[int]int)

			for i := 0; i < 4000; i++ {
				k := rng.IntN(300)
				switch rng.IntN(3) {
				case 0, 1:
					v := rng.Int()
					tr.Insert(k, v)
					model[k] = v
				case 2:
					err := tr.Remove(k)
					if _, ok := model[k]; ok {
						require.NoError(t, err)
						delete(model, k)
					} else if len(model) > 0 {
						require.ErrorIs(t, err, ErrKeyNotFound)
					} else {
						require.NoError(t, err)
					}
				}
				require.NoError(t, tr.Verify(), "step %d", i)
				require.Equal(t, len(model), tr.Len())
			}

			for k, want := range model {
				got, ok := tr.Get(k)
				require.True(t, ok)
				assert.Equal(t, want, got)
			}
			want := make([]int, 0, len(model))
			for k := range model {
				want = append(want, k)
			}
			slices.Sort(want)
			assert.Equal(t, want, collectKeys(tr))
		})
	}
}
