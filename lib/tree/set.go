package tree

import (
	"github.com/samber/lo"

	"github.com/benz9527/xcoll/lib/infra"
)

// Set is an ordered set over a Map with empty values.
type Set[K any] struct {
	m *Map[K, struct{}]
}

func NewSet[K any](cmp Comparator[K], opts ...MapOption) (*Set[K], error) {
	m, err := NewMap[K, struct{}](cmp, opts...)
	if err != nil {
		return nil, err
	}
	return &Set[K]{m: m}, nil
}

func NewOrderedSet[K infra.OrderedKey](opts ...MapOption) *Set[K] {
	return &Set[K]{m: NewOrderedMap[K, struct{}](opts...)}
}

// Add reports whether key was absent.
func (s *Set[K]) Add(key K) bool {
	_, added := s.m.Add(key, struct{}{})
	return added
}

// AddAll returns the number of keys which were absent.
func (s *Set[K]) AddAll(keys ...K) int {
	return lo.CountBy(keys, s.Add)
}

func (s *Set[K]) Contains(key K) bool {
	return s.m.ContainsKey(key)
}

func (s *Set[K]) Remove(key K) bool {
	return s.m.Remove(key)
}

func (s *Set[K]) Len() int64 {
	return s.m.Len()
}

func nodeKey[K any](node *Node[K, struct{}]) (key K, ok bool) {
	if node == nil {
		return key, false
	}
	return node.key, true
}

func (s *Set[K]) First() (K, bool) {
	return nodeKey(s.m.First())
}

func (s *Set[K]) Last() (K, bool) {
	return nodeKey(s.m.Last())
}

func (s *Set[K]) LowerBound(key K) (K, bool) {
	return nodeKey(s.m.LowerBound(key))
}

func (s *Set[K]) UpperBound(key K) (K, bool) {
	return nodeKey(s.m.UpperBound(key))
}

func (s *Set[K]) Foreach(action func(idx int64, key K) bool) error {
	return s.m.Keys().Foreach(action)
}

func (s *Set[K]) Slice() []K {
	return s.m.Keys().Slice()
}

func (s *Set[K]) Validate() bool {
	return s.m.Validate()
}
