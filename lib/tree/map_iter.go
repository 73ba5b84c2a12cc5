package tree

import (
	"github.com/benz9527/xcoll/lib/infra"
)

// Enumerator walks the entries of a map step by step.
//
//	e := m.Enumerator()
//	for e.Next() {
//		_ = e.Key()
//	}
//	if err := e.Err(); err != nil {
//		...
//	}
//
// A structural mutation of the map after the creation stops the
// enumerator with ErrInvalidOperation. SetNodeValue is not structural.
type Enumerator[K any, V any] struct {
	tree    *rbTree[K, V]
	version uint64
	pending *Node[K, V]
	end     *Node[K, V] // inclusive, nil is unbounded
	cur     *Node[K, V]
	reverse bool
	done    bool
	err     error
}

func newEnumerator[K any, V any](tree *rbTree[K, V], from, end *Node[K, V], reverse bool) *Enumerator[K, V] {
	return &Enumerator[K, V]{
		tree:    tree,
		version: tree.version,
		pending: from,
		end:     end,
		reverse: reverse,
	}
}

// Next advances to the next entry, it returns false at the end or on
// error.
func (e *Enumerator[K, V]) Next() bool {
	if e.done {
		return false
	}
	if e.version != e.tree.version {
		e.err = infra.WrapErrorStackWithMessage(ErrInvalidOperation, "map mutated during enumeration")
		e.stop()
		return false
	}
	if e.cur = e.pending; e.cur == nil {
		e.stop()
		return false
	}

	switch {
	case e.cur == e.end:
		e.pending = nil
	case e.reverse:
		e.pending = e.cur.pred()
	default:
		e.pending = e.cur.succ()
	}
	return true
}

func (e *Enumerator[K, V]) stop() {
	e.done = true
	e.cur, e.pending, e.end = nil, nil, nil
}

// Node returns the current node, nil before the first Next and after the
// end.
func (e *Enumerator[K, V]) Node() *Node[K, V] {
	return e.cur
}

func (e *Enumerator[K, V]) Key() (key K) {
	if e.cur == nil {
		return key
	}
	return e.cur.key
}

func (e *Enumerator[K, V]) Value() (val V) {
	if e.cur == nil {
		return val
	}
	return e.cur.val
}

func (e *Enumerator[K, V]) Err() error {
	return e.err
}

// Enumerator enumerates in iteration order.
func (m *Map[K, V]) Enumerator() *Enumerator[K, V] {
	return newEnumerator(&m.tree, m.tree.first(), nil, false)
}

// ReverseEnumerator enumerates against iteration order.
func (m *Map[K, V]) ReverseEnumerator() *Enumerator[K, V] {
	return newEnumerator(&m.tree, m.tree.last(), nil, true)
}

// EnumerateRange enumerates the inclusive window [lower, upper] in
// iteration order, nil bounds are unbounded.
func (m *Map[K, V]) EnumerateRange(lower, upper *K) *Enumerator[K, V] {
	lo, hi := m.tree.window(lower, upper)
	return newEnumerator(&m.tree, lo, hi, false)
}

// KeyView is a lazy read-only view of the keys.
type KeyView[K any, V any] struct {
	m *Map[K, V]
}

func (m *Map[K, V]) Keys() KeyView[K, V] {
	return KeyView[K, V]{m: m}
}

func (v KeyView[K, V]) Len() int64 {
	return v.m.Len()
}

func (v KeyView[K, V]) Contains(key K) bool {
	return v.m.ContainsKey(key)
}

func (v KeyView[K, V]) Enumerator() *Enumerator[K, V] {
	return v.m.Enumerator()
}

func (v KeyView[K, V]) Foreach(action func(idx int64, key K) bool) error {
	return v.m.Foreach(func(idx int64, key K, _ V) bool {
		return action(idx, key)
	})
}

func (v KeyView[K, V]) Slice() []K {
	keys := make([]K, 0, v.m.Len())
	v.m.tree.foreach(func(_ int64, node *Node[K, V]) bool {
		keys = append(keys, node.key)
		return true
	})
	return keys
}

// ValueView is a lazy read-only view of the values in key order.
type ValueView[K any, V any] struct {
	m *Map[K, V]
}

func (m *Map[K, V]) Values() ValueView[K, V] {
	return ValueView[K, V]{m: m}
}

func (v ValueView[K, V]) Len() int64 {
	return v.m.Len()
}

func (v ValueView[K, V]) Enumerator() *Enumerator[K, V] {
	return v.m.Enumerator()
}

func (v ValueView[K, V]) Foreach(action func(idx int64, val V) bool) error {
	return v.m.Foreach(func(idx int64, _ K, val V) bool {
		return action(idx, val)
	})
}

func (v ValueView[K, V]) Slice() []V {
	vals := make([]V, 0, v.m.Len())
	v.m.tree.foreach(func(_ int64, node *Node[K, V]) bool {
		vals = append(vals, node.val)
		return true
	})
	return vals
}
