package tree

import (
	"github.com/benz9527/xcoll/lib/infra"
	"github.com/benz9527/xcoll/lib/list"
)

// MultiMap is an ordered map which accepts duplicate keys.
// The tree holds one node per distinct key, the node value is the list of
// the entries of that key in insertion order. Removing the first entry of a
// key makes the next one the first, the tree node is only removed with the
// last entry.
// It is not thread safe.
type MultiMap[K any, V any] struct {
	m       *Map[K, *multiBucket[K, V]]
	count   int64
	version uint64
}

type multiBucket[K any, V any] struct {
	owner   *MultiMap[K, V]
	node    *Node[K, *multiBucket[K, V]]
	entries list.LinkedList[*MultiEntry[K, V]]
}

// MultiEntry is a stable handle to one value of a MultiMap.
type MultiEntry[K any, V any] struct {
	elem   *list.NodeElement[*MultiEntry[K, V]]
	bucket *multiBucket[K, V]
	Value  V
}

func NewMultiMap[K any, V any](cmp Comparator[K], opts ...MapOption) (*MultiMap[K, V], error) {
	m, err := NewMap[K, *multiBucket[K, V]](cmp, opts...)
	if err != nil {
		return nil, err
	}
	return &MultiMap[K, V]{m: m}, nil
}

func NewOrderedMultiMap[K infra.OrderedKey, V any](opts ...MapOption) *MultiMap[K, V] {
	return &MultiMap[K, V]{m: NewOrderedMap[K, *multiBucket[K, V]](opts...)}
}

// Len returns the number of entries, duplicates included.
func (mm *MultiMap[K, V]) Len() int64 {
	return mm.count
}

// KeyLen returns the number of distinct keys.
func (mm *MultiMap[K, V]) KeyLen() int64 {
	return mm.m.Len()
}

func (mm *MultiMap[K, V]) Version() uint64 {
	return mm.version
}

// Add appends val after the existing entries of key.
func (mm *MultiMap[K, V]) Add(key K, val V) *MultiEntry[K, V] {
	node, added := mm.m.Add(key, nil)
	if added {
		node.val = &multiBucket[K, V]{
			owner:   mm,
			node:    node,
			entries: list.NewLinkedList[*MultiEntry[K, V]](),
		}
	}
	bucket := node.val
	e := &MultiEntry[K, V]{bucket: bucket, Value: val}
	e.elem = bucket.entries.PushBack(e)
	mm.count++
	mm.version++
	return e
}

func (mm *MultiMap[K, V]) owns(e *MultiEntry[K, V]) bool {
	return e != nil && e.bucket != nil && e.bucket.owner == mm
}

// RemoveEntry removes one entry in O(1), plus O(log n) if it was the last
// entry of its key.
func (mm *MultiMap[K, V]) RemoveEntry(e *MultiEntry[K, V]) error {
	if !mm.owns(e) {
		return infra.WrapErrorStackWithMessage(ErrInvalidOperation, "entry does not belong to the multimap")
	}

	bucket := e.bucket
	bucket.entries.Remove(e.elem)
	if bucket.entries.Len() == 0 {
		if err := mm.m.RemoveNode(bucket.node); err != nil {
			return err
		}
		bucket.owner, bucket.node = nil, nil
	}
	e.elem, e.bucket = nil, nil
	mm.count--
	mm.version++
	return nil
}

// RemoveAll removes every entry of key and returns how many were removed.
func (mm *MultiMap[K, V]) RemoveAll(key K) int64 {
	node := mm.m.FindNode(key)
	if node == nil {
		return 0
	}
	bucket := node.val
	n := bucket.entries.Len()
	_ = bucket.entries.Foreach(func(_ int64, elem *list.NodeElement[*MultiEntry[K, V]]) error {
		elem.Value.elem, elem.Value.bucket = nil, nil
		return nil
	})
	mm.m.Remove(key)
	bucket.owner, bucket.node, bucket.entries = nil, nil, nil
	mm.count -= n
	mm.version++
	return n
}

func (mm *MultiMap[K, V]) ContainsKey(key K) bool {
	return mm.m.ContainsKey(key)
}

// Count returns the number of entries of key.
func (mm *MultiMap[K, V]) Count(key K) int64 {
	node := mm.m.FindNode(key)
	if node == nil {
		return 0
	}
	return node.val.entries.Len()
}

// Find returns the first inserted entry of key.
func (mm *MultiMap[K, V]) Find(key K) *MultiEntry[K, V] {
	return bucketFront(mm.m.FindNode(key))
}

// Values returns the values of key in insertion order.
func (mm *MultiMap[K, V]) Values(key K) []V {
	node := mm.m.FindNode(key)
	if node == nil {
		return nil
	}
	vals := make([]V, 0, node.val.entries.Len())
	_ = node.val.entries.Foreach(func(_ int64, elem *list.NodeElement[*MultiEntry[K, V]]) error {
		vals = append(vals, elem.Value.Value)
		return nil
	})
	return vals
}

func bucketFront[K any, V any](node *Node[K, *multiBucket[K, V]]) *MultiEntry[K, V] {
	if node == nil {
		return nil
	}
	return node.val.entries.Front().Value
}

func bucketBack[K any, V any](node *Node[K, *multiBucket[K, V]]) *MultiEntry[K, V] {
	if node == nil {
		return nil
	}
	return node.val.entries.Back().Value
}

func (mm *MultiMap[K, V]) First() *MultiEntry[K, V] {
	return bucketFront(mm.m.First())
}

func (mm *MultiMap[K, V]) Last() *MultiEntry[K, V] {
	return bucketBack(mm.m.Last())
}

// LowerBound returns the first entry of the first key not ordered before
// key.
func (mm *MultiMap[K, V]) LowerBound(key K) *MultiEntry[K, V] {
	return bucketFront(mm.m.LowerBound(key))
}

// UpperBound returns the last entry of the last key not ordered after key.
func (mm *MultiMap[K, V]) UpperBound(key K) *MultiEntry[K, V] {
	return bucketBack(mm.m.UpperBound(key))
}

func (mm *MultiMap[K, V]) Clear() {
	mm.m.tree.foreach(func(_ int64, node *Node[K, *multiBucket[K, V]]) bool {
		_ = node.val.entries.Foreach(func(_ int64, elem *list.NodeElement[*MultiEntry[K, V]]) error {
			elem.Value.elem, elem.Value.bucket = nil, nil
			return nil
		})
		node.val.owner = nil
		return true
	})
	mm.m.Clear()
	mm.count = 0
	mm.version++
}

func (mm *MultiMap[K, V]) Validate() bool {
	if !mm.m.Validate() {
		return false
	}
	total := int64(0)
	ok := true
	mm.m.tree.foreach(func(_ int64, node *Node[K, *multiBucket[K, V]]) bool {
		b := node.val
		if b == nil || b.owner != mm || b.node != node || b.entries.Len() == 0 {
			ok = false
			return false
		}
		total += b.entries.Len()
		return true
	})
	return ok && total == mm.count
}

// Key returns the key of a live entry.
func (e *MultiEntry[K, V]) Key() (key K) {
	if e == nil || e.bucket == nil {
		return key
	}
	return e.bucket.node.key
}

// Next returns the next duplicate of the same key, or the first entry of
// the next key.
func (e *MultiEntry[K, V]) Next() *MultiEntry[K, V] {
	if e == nil || e.bucket == nil {
		return nil
	}
	if n := e.elem.Next(); n != nil {
		return n.Value
	}
	return bucketFront(e.bucket.node.Next())
}

// Prev returns the previous duplicate of the same key, or the last entry
// of the previous key.
func (e *MultiEntry[K, V]) Prev() *MultiEntry[K, V] {
	if e == nil || e.bucket == nil {
		return nil
	}
	if p := e.elem.Prev(); p != nil {
		return p.Value
	}
	return bucketBack(e.bucket.node.Prev())
}

// MultiEnumerator visits keys in tree order and duplicates in insertion
// order. Any structural mutation after the creation stops it with
// ErrInvalidOperation.
type MultiEnumerator[K any, V any] struct {
	mm      *MultiMap[K, V]
	version uint64
	pending *MultiEntry[K, V]
	cur     *MultiEntry[K, V]
	done    bool
	err     error
}

func (mm *MultiMap[K, V]) Enumerator() *MultiEnumerator[K, V] {
	return &MultiEnumerator[K, V]{
		mm:      mm,
		version: mm.version,
		pending: mm.First(),
	}
}

func (e *MultiEnumerator[K, V]) Next() bool {
	if e.done {
		return false
	}
	if e.version != e.mm.version {
		e.err = infra.WrapErrorStackWithMessage(ErrInvalidOperation, "multimap mutated during enumeration")
		e.done, e.cur, e.pending = true, nil, nil
		return false
	}
	if e.cur = e.pending; e.cur == nil {
		e.done = true
		return false
	}
	e.pending = e.cur.Next()
	return true
}

func (e *MultiEnumerator[K, V]) Entry() *MultiEntry[K, V] {
	return e.cur
}

func (e *MultiEnumerator[K, V]) Key() K {
	return e.cur.Key()
}

func (e *MultiEnumerator[K, V]) Value() (val V) {
	if e.cur == nil {
		return val
	}
	return e.cur.Value
}

func (e *MultiEnumerator[K, V]) Err() error {
	return e.err
}
