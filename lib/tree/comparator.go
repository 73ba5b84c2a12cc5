package tree

import (
	"github.com/benz9527/xcoll/lib/infra"
)

// searchStrategy locates a key from the root.
// It returns 0 and the matching node if found. Otherwise, it returns the
// last comparison sign and the last visited node (the insertion point).
// An empty tree returns a nil node.
//
// Every strategy has to be observably equivalent to comparatorSearch, the
// specialized ones only avoid an indirect call per comparison.
type searchStrategy[K any, V any] interface {
	search(root *Node[K, V], key K) (int, *Node[K, V])
	compare(a, b K) int
}

var (
	_ searchStrategy[struct{}, struct{}] = (*comparatorSearch[struct{}, struct{}])(nil)
	_ searchStrategy[int, struct{}]      = (*orderedSearch[int, struct{}])(nil)
)

// comparatorSearch is the generic path driven by a user comparator.
// The direction multiplier is applied to every comparison result, the
// comparator itself is never negated, so a user tie-breaking order among
// equal looking keys is preserved.
type comparatorSearch[K any, V any] struct {
	cmp  Comparator[K]
	desc bool
}

func (s *comparatorSearch[K, V]) compare(a, b K) int {
	res := infra.NormalizeCompareResult(s.cmp(a, b))
	if s.desc {
		return -res
	}
	return res
}

func (s *comparatorSearch[K, V]) search(root *Node[K, V], key K) (res int, x *Node[K, V]) {
	for aux := root; aux != nil; {
		x = aux
		if res = s.compare(key, aux.key); res == 0 {
			return 0, aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return res, x
}

// orderedSearch is the fast path for built-in ordered keys with the
// default comparator. It uses the comparison operators inline and falls
// back to infra.CompareOrderedKey only for NaN.
type orderedSearch[K infra.OrderedKey, V any] struct {
	desc bool
}

func (s *orderedSearch[K, V]) compare(a, b K) int {
	res := infra.CompareOrderedKey(a, b)
	if s.desc {
		return -res
	}
	return res
}

func (s *orderedSearch[K, V]) search(root *Node[K, V], key K) (res int, x *Node[K, V]) {
	for aux := root; aux != nil; {
		x = aux
		switch {
		case key < aux.key:
			res = -1
		case key > aux.key:
			res = 1
		case key == aux.key:
			return 0, aux
		default:
			if res = infra.CompareOrderedKey(key, aux.key); res == 0 {
				return 0, aux
			}
		}
		if s.desc {
			res = -res
		}
		if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return res, x
}

func newComparatorSearch[K any, V any](cmp Comparator[K], desc bool) searchStrategy[K, V] {
	return &comparatorSearch[K, V]{cmp: cmp, desc: desc}
}

// newOrderedSearch selects the strategy for the default comparator once at
// construction.
func newOrderedSearch[K infra.OrderedKey, V any](desc, fastPath bool) searchStrategy[K, V] {
	if !fastPath {
		return newComparatorSearch[K, V](infra.CompareOrderedKey[K], desc)
	}
	return &orderedSearch[K, V]{desc: desc}
}
