package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xcoll/lib/infra"
	"github.com/benz9527/xcoll/lib/xlog"
)

// Map is an ordered map backed by a red-black tree.
// The nodes returned by a Map are stable handles, so an entry can be
// removed or updated in place later without a second search.
// A Map must not be copied after first use and it is not thread safe.
type Map[K any, V any] struct {
	tree   rbTree[K, V]
	debug  bool
	logger xlog.XLogger
}

type mapOptions struct {
	desc         bool
	freeListSize int
	noFastPath   bool
	debug        bool
	logger       xlog.XLogger
}

type MapOption func(opts *mapOptions)

// WithDescending reverses the order of the map. Every comparison result is
// negated, so iteration, First, Last and the bounds are mirrored.
func WithDescending() MapOption {
	return func(opts *mapOptions) {
		opts.desc = true
	}
}

// WithFreeListSize sets how many nodes removed by key are kept for reuse.
// A size <= 0 disables the free list.
func WithFreeListSize(size int) MapOption {
	return func(opts *mapOptions) {
		opts.freeListSize = size
	}
}

// WithoutFastPath forces an ordered map to compare through the generic
// comparator path.
func WithoutFastPath() MapOption {
	return func(opts *mapOptions) {
		opts.noFastPath = true
	}
}

// WithDebugCheck verifies all the invariants after every structural
// mutation. It is O(n) per mutation.
// Violations are logged by the logger, or panic if the logger is nil.
func WithDebugCheck(logger xlog.XLogger) MapOption {
	return func(opts *mapOptions) {
		opts.debug = true
		opts.logger = logger
	}
}

func buildMapOptions(opts ...MapOption) *mapOptions {
	o := &mapOptions{
		freeListSize: DefaultFreeListSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func newMap[K any, V any](strategy searchStrategy[K, V], o *mapOptions) *Map[K, V] {
	m := &Map[K, V]{
		debug:  o.debug,
		logger: o.logger,
	}
	m.tree.desc = o.desc
	m.tree.strategy = strategy
	m.tree.free = newFreeList[K, V](o.freeListSize)
	return m
}

// NewMap creates a map ordered by cmp.
func NewMap[K any, V any](cmp Comparator[K], opts ...MapOption) (*Map[K, V], error) {
	if cmp == nil {
		return nil, infra.WrapErrorStackWithMessage(ErrInvalidArgument, "nil comparator")
	}
	o := buildMapOptions(opts...)
	return newMap[K, V](newComparatorSearch[K, V](cmp, o.desc), o), nil
}

// NewOrderedMap creates a map ordered by the natural order of K, the same
// order as cmp.Compare, NaN first.
func NewOrderedMap[K infra.OrderedKey, V any](opts ...MapOption) *Map[K, V] {
	o := buildMapOptions(opts...)
	return newMap[K, V](newOrderedSearch[K, V](o.desc, !o.noFastPath), o)
}

func (m *Map[K, V]) Len() int64 {
	return m.tree.count
}

// Version changes on every structural mutation.
func (m *Map[K, V]) Version() uint64 {
	return m.tree.version
}

func (m *Map[K, V]) IsDescending() bool {
	return m.tree.desc
}

func (m *Map[K, V]) Root() *Node[K, V] {
	return m.tree.root
}

func (m *Map[K, V]) afterMutation(op string) {
	if !m.debug {
		return
	}
	if err := m.tree.verify(); err != nil {
		if m.logger == nil {
			panic(err)
		}
		m.logger.ErrorStack(err, "[rbtree] invariants violated",
			zap.String("op", op),
			zap.Int64("len", m.tree.count),
			zap.String("violations", err.Error()),
		)
	}
}

func (m *Map[K, V]) errNotOwned(node *Node[K, V]) error {
	if node == nil {
		return infra.WrapErrorStackWithMessage(ErrInvalidOperation, "nil node")
	}
	if node.IsUnused() {
		return infra.WrapErrorStackWithMessage(ErrInvalidOperation, "node has been removed")
	}
	return infra.WrapErrorStackWithMessage(ErrInvalidOperation, "node belongs to another map")
}

// Add inserts key if absent. An existing entry is never overwritten, its
// node is returned with added false.
func (m *Map[K, V]) Add(key K, val V) (node *Node[K, V], added bool) {
	node, added, _ = m.tree.probe(key, val, nil, false)
	if added {
		m.afterMutation("add")
	}
	return node, added
}

// AddWithReuse is Add which links the Unused reuse node instead of
// allocating, if the key is absent. A zero Node is Unused.
// A reuse node which is still live in any map is rejected.
func (m *Map[K, V]) AddWithReuse(key K, val V, reuse *Node[K, V]) (*Node[K, V], bool, error) {
	node, added, err := m.tree.probe(key, val, reuse, false)
	if err != nil {
		return nil, false, err
	}
	if added {
		m.afterMutation("add")
	}
	return node, added, nil
}

// Replace inserts key or overwrites the value of the existing entry, which
// is not a structural mutation.
func (m *Map[K, V]) Replace(key K, val V) (node *Node[K, V], replaced bool) {
	node, added, _ := m.tree.probe(key, val, nil, true)
	if added {
		m.afterMutation("replace")
	}
	return node, !added
}

// Remove removes key and recycles its node.
// A handle kept for the removed entry is Unused until the node is recycled
// by a later Add, then it points to that new entry. Use RemoveNode to keep
// a handle which is never recycled, or WithFreeListSize(0).
func (m *Map[K, V]) Remove(key K) bool {
	res, node := m.tree.search(key)
	if node == nil || res != 0 {
		return false
	}
	m.tree.removeNode(node)
	m.tree.free.freeNode(node)
	m.afterMutation("remove")
	return true
}

// RemoveNode removes the entry of node without any search.
// The node becomes Unused and it may be passed to AddWithReuse.
func (m *Map[K, V]) RemoveNode(node *Node[K, V]) error {
	if !m.tree.owns(node) {
		return m.errNotOwned(node)
	}
	m.tree.removeNode(node)
	m.afterMutation("remove")
	return nil
}

func (m *Map[K, V]) removeEdge(node *Node[K, V]) (key K, val V, ok bool) {
	if node == nil {
		return key, val, false
	}
	key, val = node.key, node.val
	m.tree.removeNode(node)
	m.tree.free.freeNode(node)
	m.afterMutation("remove")
	return key, val, true
}

// RemoveFirst removes the first entry in iteration order.
func (m *Map[K, V]) RemoveFirst() (K, V, bool) {
	return m.removeEdge(m.tree.first())
}

// RemoveLast removes the last entry in iteration order.
func (m *Map[K, V]) RemoveLast() (K, V, bool) {
	return m.removeEdge(m.tree.last())
}

func (m *Map[K, V]) FindNode(key K) *Node[K, V] {
	res, node := m.tree.search(key)
	if res != 0 {
		return nil
	}
	return node
}

func (m *Map[K, V]) ContainsKey(key K) bool {
	return m.FindNode(key) != nil
}

func (m *Map[K, V]) TryGetValue(key K) (val V, ok bool) {
	if node := m.FindNode(key); node != nil {
		return node.val, true
	}
	return val, false
}

func (m *Map[K, V]) Get(key K) (val V, err error) {
	node := m.FindNode(key)
	if node == nil {
		return val, infra.WrapErrorStackWithMessage(ErrKeyNotFound, "get")
	}
	return node.val, nil
}

// SetNodeKey changes the key of node.
// The key is set in place if the node keeps its position between its
// neighbours. Otherwise, the node is removed and linked again at the new
// position, the handle stays the same. A key already held by another
// entry is rejected.
func (m *Map[K, V]) SetNodeKey(node *Node[K, V], key K) error {
	if !m.tree.owns(node) {
		return m.errNotOwned(node)
	}

	prev, next := node.pred(), node.succ()
	if (prev == nil || m.tree.compare(prev.key, key) < 0) &&
		(next == nil || m.tree.compare(key, next.key) < 0) {
		node.key = key
		return nil
	}

	if res, other := m.tree.search(key); other != nil && res == 0 && other != node {
		return infra.WrapErrorStackWithMessage(ErrInvalidArgument, "key is held by another node")
	}

	val := node.val
	m.tree.removeNode(node)
	if _, _, err := m.tree.probe(key, val, node, false); err != nil {
		// impossible run to here
		panic( /* debug assertion */ err)
	}
	m.afterMutation("set key")
	return nil
}

// SetNodeValue overwrites the value of node in O(1). It never affects the
// order, so the running enumerators stay valid.
func (m *Map[K, V]) SetNodeValue(node *Node[K, V], val V) error {
	if !m.tree.owns(node) {
		return m.errNotOwned(node)
	}
	node.val = val
	return nil
}

func (m *Map[K, V]) First() *Node[K, V] {
	return m.tree.first()
}

func (m *Map[K, V]) Last() *Node[K, V] {
	return m.tree.last()
}

// LowerBound returns the first node in iteration order whose key is not
// ordered before key, or nil.
func (m *Map[K, V]) LowerBound(key K) *Node[K, V] {
	return m.tree.lowerBound(key)
}

// UpperBound returns the last node in iteration order whose key is not
// ordered after key, or nil.
func (m *Map[K, V]) UpperBound(key K) *Node[K, V] {
	return m.tree.upperBound(key)
}

// GetLowerBound is LowerBound where a nil key is unbounded and returns
// First.
func (m *Map[K, V]) GetLowerBound(key *K) *Node[K, V] {
	return m.tree.lowerBoundOrFirst(key)
}

// GetUpperBound is UpperBound where a nil key is unbounded and returns
// Last.
func (m *Map[K, V]) GetUpperBound(key *K) *Node[K, V] {
	return m.tree.upperBoundOrLast(key)
}

// GetRange returns the first and the last node of the inclusive window
// [lower, upper], nil bounds are unbounded. An empty or inverted window
// returns two nil nodes.
func (m *Map[K, V]) GetRange(lower, upper *K) (*Node[K, V], *Node[K, V]) {
	return m.tree.window(lower, upper)
}

// Clear removes all the entries. The removed nodes become Unused.
func (m *Map[K, V]) Clear() {
	m.tree.release()
}

// Foreach visits the entries in iteration order until action returns
// false. A structural mutation by action stops the traversal with
// ErrInvalidOperation.
func (m *Map[K, V]) Foreach(action func(idx int64, key K, val V) bool) (err error) {
	if action == nil {
		return nil
	}
	version := m.tree.version
	m.tree.foreach(func(idx int64, node *Node[K, V]) bool {
		next := action(idx, node.key, node.val)
		if version != m.tree.version {
			err = infra.WrapErrorStackWithMessage(ErrInvalidOperation, "map mutated during foreach")
			return false
		}
		return next
	})
	return err
}

// Validate reports whether all the invariants hold. It is O(n).
func (m *Map[K, V]) Validate() bool {
	return m.tree.verify() == nil
}

// Verify returns every violated invariant. It is O(n).
func (m *Map[K, V]) Verify() error {
	return m.tree.verify()
}
