package cache

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/benz9527/xcoll/lib/infra"
	"github.com/benz9527/xcoll/lib/list"
	"github.com/benz9527/xcoll/lib/tree"
	"github.com/benz9527/xcoll/lib/xlog"
)

var ErrLRUInvalidCapacity = fmt.Errorf("[lru] invalid capacity, %w", tree.ErrInvalidArgument)

type lruEntry[K any, V any] struct {
	node *tree.Node[K, *lruEntry[K, V]]
	elem *list.NodeElement[*lruEntry[K, V]]
	val  V
}

// LRU is a fixed capacity cache which evicts the least recently used entry.
// The keys are indexed by an ordered map, so the cache is also able to
// enumerate its keys in order.
// It is not thread safe.
type LRU[K any, V any] struct {
	index    *tree.Map[K, *lruEntry[K, V]]
	recency  list.LinkedList[*lruEntry[K, V]] // most recent at the front
	capacity int64
	onEvict  func(key K, val V)
	logger   xlog.XLogger
	stats    *lruStats
}

type lruOptions[K any, V any] struct {
	cmp       tree.Comparator[K]
	onEvict   func(key K, val V)
	logger    xlog.XLogger
	statsName string
	stats     bool
	mp        metric.MeterProvider
	mapOpts   []tree.MapOption
}

type LRUOption[K any, V any] func(opts *lruOptions[K, V]) error

// WithLRUComparator orders the keys by cmp instead of the natural order.
func WithLRUComparator[K any, V any](cmp tree.Comparator[K]) LRUOption[K, V] {
	return func(opts *lruOptions[K, V]) error {
		if cmp == nil {
			return infra.WrapErrorStackWithMessage(tree.ErrInvalidArgument, "[lru] nil comparator")
		}
		opts.cmp = cmp
		return nil
	}
}

// WithLRUEvictCallback is called for an entry evicted by the capacity or
// by Purge, not for Remove.
func WithLRUEvictCallback[K any, V any](fn func(key K, val V)) LRUOption[K, V] {
	return func(opts *lruOptions[K, V]) error {
		opts.onEvict = fn
		return nil
	}
}

func WithLRULogger[K any, V any](logger xlog.XLogger) LRUOption[K, V] {
	return func(opts *lruOptions[K, V]) error {
		opts.logger = logger
		return nil
	}
}

// WithLRUStats records the hits, misses, evictions and size as otel
// metrics. The global meter provider is used if mp is absent.
func WithLRUStats[K any, V any](name string, mp ...metric.MeterProvider) LRUOption[K, V] {
	return func(opts *lruOptions[K, V]) error {
		if name == "" {
			return infra.NewErrorStack("[lru] empty stats name")
		}
		opts.stats = true
		opts.statsName = name
		if len(mp) > 0 {
			opts.mp = mp[0]
		}
		return nil
	}
}

// WithLRUMapOptions passes the options to the index map.
func WithLRUMapOptions[K any, V any](mapOpts ...tree.MapOption) LRUOption[K, V] {
	return func(opts *lruOptions[K, V]) error {
		opts.mapOpts = append(opts.mapOpts, mapOpts...)
		return nil
	}
}

func buildLRUOptions[K any, V any](capacity int64, opts ...LRUOption[K, V]) (*lruOptions[K, V], error) {
	if capacity <= 0 {
		return nil, infra.WrapErrorStackWithMessage(ErrLRUInvalidCapacity, fmt.Sprintf("capacity %d", capacity))
	}
	o := &lruOptions[K, V]{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func newLRU[K any, V any](capacity int64, index *tree.Map[K, *lruEntry[K, V]], o *lruOptions[K, V]) *LRU[K, V] {
	c := &LRU[K, V]{
		index:    index,
		recency:  list.NewLinkedList[*lruEntry[K, V]](),
		capacity: capacity,
		onEvict:  o.onEvict,
		logger:   o.logger,
	}
	if o.stats {
		c.stats = newLRUStats(o.statsName, o.mp)
	}
	return c
}

// NewLRU creates a cache over naturally ordered keys.
func NewLRU[K infra.OrderedKey, V any](capacity int64, opts ...LRUOption[K, V]) (*LRU[K, V], error) {
	o, err := buildLRUOptions(capacity, opts...)
	if err != nil {
		return nil, err
	}
	var index *tree.Map[K, *lruEntry[K, V]]
	if o.cmp != nil {
		index, err = tree.NewMap[K, *lruEntry[K, V]](o.cmp, o.mapOpts...)
		if err != nil {
			return nil, err
		}
	} else {
		index = tree.NewOrderedMap[K, *lruEntry[K, V]](o.mapOpts...)
	}
	return newLRU(capacity, index, o), nil
}

// NewLRUFunc creates a cache over keys ordered by cmp.
func NewLRUFunc[K any, V any](capacity int64, cmp tree.Comparator[K], opts ...LRUOption[K, V]) (*LRU[K, V], error) {
	o, err := buildLRUOptions(capacity, append([]LRUOption[K, V]{WithLRUComparator[K, V](cmp)}, opts...)...)
	if err != nil {
		return nil, err
	}
	index, err := tree.NewMap[K, *lruEntry[K, V]](o.cmp, o.mapOpts...)
	if err != nil {
		return nil, err
	}
	return newLRU(capacity, index, o), nil
}

func (c *LRU[K, V]) Len() int64 {
	return c.index.Len()
}

func (c *LRU[K, V]) Cap() int64 {
	return c.capacity
}

// Get returns the value of key and marks it as the most recently used.
func (c *LRU[K, V]) Get(key K) (val V, ok bool) {
	node := c.index.FindNode(key)
	if node == nil {
		c.stats.IncreaseMissCount()
		return val, false
	}
	c.stats.IncreaseHitCount()
	e := node.Value()
	c.recency.MoveToFront(e.elem)
	return e.val, true
}

// Peek returns the value of key without updating the recency.
func (c *LRU[K, V]) Peek(key K) (val V, ok bool) {
	node := c.index.FindNode(key)
	if node == nil {
		return val, false
	}
	return node.Value().val, true
}

func (c *LRU[K, V]) Contains(key K) bool {
	return c.index.ContainsKey(key)
}

// Put inserts or updates key as the most recently used entry and reports
// whether another entry was evicted for it.
func (c *LRU[K, V]) Put(key K, val V) (evicted bool) {
	if node := c.index.FindNode(key); node != nil {
		e := node.Value()
		e.val = val
		c.recency.MoveToFront(e.elem)
		return false
	}

	var (
		reuse *tree.Node[K, *lruEntry[K, V]]
		e     *lruEntry[K, V]
	)
	if c.index.Len() >= c.capacity {
		e = c.evictOldest()
		reuse, evicted = e.node, true
	} else {
		e = &lruEntry[K, V]{}
	}

	e.val = val
	node, _, err := c.index.AddWithReuse(key, e, reuse)
	if err != nil {
		// impossible run to here
		panic( /* debug assertion */ err)
	}
	e.node = node
	e.elem = c.recency.PushFront(e)
	if !evicted {
		c.stats.RecordSize(1)
	}
	return evicted
}

// evictOldest unlinks the least recently used entry by its handles, there
// is no second lookup. The removed tree node is Unused and ready for reuse.
func (c *LRU[K, V]) evictOldest() *lruEntry[K, V] {
	e := c.recency.Back().Value
	c.recency.Remove(e.elem)
	key, val := e.node.Key(), e.val
	if err := c.index.RemoveNode(e.node); err != nil {
		// impossible run to here
		panic( /* debug assertion */ err)
	}

	c.stats.IncreaseEvictionCount()
	if c.logger != nil {
		c.logger.Debug("[lru] evict the oldest entry", zap.Any("key", key), zap.Int64("capacity", c.capacity))
	}
	if c.onEvict != nil {
		c.onEvict(key, val)
	}
	var zero V
	e.elem, e.val = nil, zero
	return e
}

// Remove removes key from the cache, the evict callback is not called.
func (c *LRU[K, V]) Remove(key K) bool {
	node := c.index.FindNode(key)
	if node == nil {
		return false
	}
	e := node.Value()
	c.recency.Remove(e.elem)
	if err := c.index.RemoveNode(node); err != nil {
		return false
	}
	c.stats.RecordSize(-1)
	return true
}

// Oldest returns the least recently used entry.
func (c *LRU[K, V]) Oldest() (key K, val V, ok bool) {
	elem := c.recency.Back()
	if elem == nil {
		return key, val, false
	}
	return elem.Value.node.Key(), elem.Value.val, true
}

// Newest returns the most recently used entry.
func (c *LRU[K, V]) Newest() (key K, val V, ok bool) {
	elem := c.recency.Front()
	if elem == nil {
		return key, val, false
	}
	return elem.Value.node.Key(), elem.Value.val, true
}

// Keys returns the keys in key order.
func (c *LRU[K, V]) Keys() []K {
	return c.index.Keys().Slice()
}

// Range visits the entries of the inclusive key window [lower, upper] in
// key order without updating the recency, nil bounds are unbounded.
func (c *LRU[K, V]) Range(lower, upper *K, fn func(key K, val V) bool) error {
	e := c.index.EnumerateRange(lower, upper)
	for e.Next() {
		if !fn(e.Key(), e.Value().val) {
			break
		}
	}
	return e.Err()
}

// Purge removes all the entries, the evict callback is called for each of
// them from the oldest.
func (c *LRU[K, V]) Purge() {
	size := c.index.Len()
	if c.onEvict != nil {
		c.recency.ReverseForeach(func(_ int64, elem *list.NodeElement[*lruEntry[K, V]]) bool {
			c.onEvict(elem.Value.node.Key(), elem.Value.val)
			return true
		})
	}
	c.index.Clear()
	c.recency = list.NewLinkedList[*lruEntry[K, V]]()
	c.stats.RecordSize(-size)
}
