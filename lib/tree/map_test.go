package tree

import (
	"bytes"
	"cmp"
	"errors"
	"math"
	randv2 "math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/benz9527/xcoll/lib/xlog"
)

func ptr[T any](v T) *T {
	return &v
}

func TestMap_InsertOrder(t *testing.T) {
	m := NewOrderedMap[int, string]()
	for _, key := range []int{4, 2, 6, 1, 3, 5, 7} {
		_, added := m.Add(key, "v")
		require.True(t, added)
	}
	require.True(t, m.Validate())
	require.Equal(t, 1, m.First().Key())
	require.Equal(t, 7, m.Last().Key())
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, m.Keys().Slice())

	keys := make([]int, 0, 7)
	for n := m.First(); n != nil; n = n.Next() {
		keys = append(keys, n.Key())
	}
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, keys)

	keys = keys[:0]
	for n := m.Last(); n != nil; n = n.Prev() {
		keys = append(keys, n.Key())
	}
	require.Equal(t, []int{7, 6, 5, 4, 3, 2, 1}, keys)
}

func TestMap_Bounds(t *testing.T) {
	m := NewOrderedMap[int, int]()
	for _, key := range []int{10, 20, 30} {
		m.Add(key, key)
	}

	require.Equal(t, 20, m.GetLowerBound(ptr(15)).Key())
	require.Equal(t, 10, m.GetUpperBound(ptr(15)).Key())
	require.Equal(t, 10, m.GetLowerBound(ptr(5)).Key())
	require.Equal(t, 30, m.GetUpperBound(ptr(35)).Key())
	require.Nil(t, m.GetLowerBound(ptr(35)))
	require.Nil(t, m.GetUpperBound(ptr(5)))
	require.Equal(t, 20, m.GetLowerBound(ptr(20)).Key())
	require.Equal(t, 20, m.GetUpperBound(ptr(20)).Key())
	require.Equal(t, 10, m.GetLowerBound(nil).Key())
	require.Equal(t, 30, m.GetUpperBound(nil).Key())

	lo, hi := m.GetRange(ptr(11), ptr(30))
	require.Equal(t, 20, lo.Key())
	require.Equal(t, 30, hi.Key())

	lo, hi = m.GetRange(nil, nil)
	require.Equal(t, 10, lo.Key())
	require.Equal(t, 30, hi.Key())

	// empty window
	lo, hi = m.GetRange(ptr(11), ptr(19))
	require.Nil(t, lo)
	require.Nil(t, hi)

	// inverted window
	lo, hi = m.GetRange(ptr(30), ptr(10))
	require.Nil(t, lo)
	require.Nil(t, hi)

	empty := NewOrderedMap[int, int]()
	require.Nil(t, empty.GetLowerBound(ptr(1)))
	require.Nil(t, empty.GetUpperBound(nil))
	lo, hi = empty.GetRange(nil, nil)
	require.Nil(t, lo)
	require.Nil(t, hi)
}

func TestMap_BoundsProperty(t *testing.T) {
	m := NewOrderedMap[int, int]()
	keys := make([]int, 0, 256)
	for i := 0; i < 256; i++ {
		key := randv2.Intn(2048)
		if _, added := m.Add(key, i); added {
			keys = append(keys, key)
		}
	}

	for q := -1; q <= 2049; q++ {
		lowest, highest := math.MaxInt, math.MinInt
		for _, k := range keys {
			if k >= q && k < lowest {
				lowest = k
			}
			if k <= q && k > highest {
				highest = k
			}
		}
		if lo := m.LowerBound(q); lowest == math.MaxInt {
			require.Nil(t, lo)
		} else {
			require.Equal(t, lowest, lo.Key())
		}
		if hi := m.UpperBound(q); highest == math.MinInt {
			require.Nil(t, hi)
		} else {
			require.Equal(t, highest, hi.Key())
		}
	}
}

func TestMap_Descending(t *testing.T) {
	m := NewOrderedMap[int, int](WithDescending())
	require.True(t, m.IsDescending())
	for _, key := range []int{1, 2, 3} {
		m.Add(key, key)
	}
	require.True(t, m.Validate())
	require.Equal(t, []int{3, 2, 1}, m.Keys().Slice())
	require.Equal(t, 3, m.First().Key())
	require.Equal(t, 1, m.Last().Key())

	require.Equal(t, 2, m.GetLowerBound(ptr(2)).Key())
	require.Equal(t, 2, m.GetUpperBound(ptr(2)).Key())

	m.Add(10, 10)
	m.Add(20, 20)
	// mirrored: the first key in iteration order not ordered before 15 is 10
	require.Equal(t, 10, m.GetLowerBound(ptr(15)).Key())
	require.Equal(t, 20, m.GetUpperBound(ptr(15)).Key())
	require.Nil(t, m.GetLowerBound(ptr(0)))
	require.Equal(t, 20, m.GetLowerBound(ptr(25)).Key())

	lo, hi := m.GetRange(ptr(15), ptr(2))
	require.Equal(t, 10, lo.Key())
	require.Equal(t, 2, hi.Key())
	lo, hi = m.GetRange(ptr(2), ptr(15))
	require.Nil(t, lo)
	require.Nil(t, hi)
}

func TestMap_AddReplace(t *testing.T) {
	m := NewOrderedMap[string, int]()
	n1, added := m.Add("a", 1)
	require.True(t, added)
	version := m.Version()

	n2, added := m.Add("a", 2)
	require.False(t, added)
	require.Equal(t, n1, n2)
	require.Equal(t, 1, n2.Value())
	require.Equal(t, version, m.Version())

	n3, replaced := m.Replace("a", 3)
	require.True(t, replaced)
	require.Equal(t, n1, n3)
	require.Equal(t, 3, n1.Value())
	require.Equal(t, version, m.Version())

	n4, replaced := m.Replace("b", 4)
	require.False(t, replaced)
	require.Equal(t, "b", n4.Key())
	require.Equal(t, int64(2), m.Len())
	require.Greater(t, m.Version(), version)
}

func TestMap_Lookup(t *testing.T) {
	m := NewOrderedMap[int, string]()
	m.Add(1, "one")

	require.True(t, m.ContainsKey(1))
	require.False(t, m.ContainsKey(2))
	require.Nil(t, m.FindNode(2))

	val, ok := m.TryGetValue(1)
	require.True(t, ok)
	require.Equal(t, "one", val)
	_, ok = m.TryGetValue(2)
	require.False(t, ok)

	val, err := m.Get(1)
	require.NoError(t, err)
	require.Equal(t, "one", val)
	_, err = m.Get(2)
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMap_NodeStability(t *testing.T) {
	m := NewOrderedMap[int, int]()
	handles := make(map[int]*Node[int, int], 128)
	for i := 0; i < 128; i++ {
		n, _ := m.Add(i, i*i)
		handles[i] = n
	}
	// Unrelated removals and insertions rotate the tree a lot.
	for i := 0; i < 128; i += 3 {
		require.True(t, m.Remove(i))
		delete(handles, i)
	}
	for i := 1000; i < 1200; i++ {
		m.Add(i, i)
	}
	require.True(t, m.Validate())

	for key, n := range handles {
		require.False(t, n.IsUnused())
		require.Equal(t, key, n.Key())
		require.Equal(t, key*key, n.Value())
		require.Equal(t, n, m.FindNode(key))
	}
	for key, n := range handles {
		require.NoError(t, m.RemoveNode(n))
		require.True(t, n.IsUnused())
		require.Nil(t, m.FindNode(key))
	}
	require.Equal(t, int64(200), m.Len())
	require.True(t, m.Validate())
}

func TestMap_ReuseNode(t *testing.T) {
	m := NewOrderedMap[int, string]()
	for i := 0; i < 10; i++ {
		m.Add(i, "v")
	}
	n := m.FindNode(5)
	require.NoError(t, m.RemoveNode(n))
	require.True(t, n.IsUnused())
	require.Equal(t, Unused, n.Color())
	require.Equal(t, 0, n.Key())
	require.Equal(t, "", n.Value())

	reused, added, err := m.AddWithReuse(42, "v42", n)
	require.NoError(t, err)
	require.True(t, added)
	require.Same(t, n, reused)
	require.Equal(t, 42, reused.Key())
	require.Equal(t, "v42", reused.Value())
	require.True(t, m.Validate())

	// live node
	_, _, err = m.AddWithReuse(43, "v43", reused)
	require.ErrorIs(t, err, ErrInvalidOperation)
	require.False(t, m.ContainsKey(43))

	// existing key keeps the hint untouched
	hint := new(Node[int, string])
	node, added, err := m.AddWithReuse(42, "x", hint)
	require.NoError(t, err)
	require.False(t, added)
	require.Same(t, reused, node)
	require.True(t, hint.IsUnused())

	// a zero node is Unused
	node, added, err = m.AddWithReuse(44, "v44", hint)
	require.NoError(t, err)
	require.True(t, added)
	require.Same(t, hint, node)
}

func TestMap_NodeOwnership(t *testing.T) {
	m1, m2 := NewOrderedMap[int, int](), NewOrderedMap[int, int]()
	n1, _ := m1.Add(1, 1)
	m2.Add(1, 1)

	require.ErrorIs(t, m2.RemoveNode(n1), ErrInvalidOperation)
	require.ErrorIs(t, m2.SetNodeValue(n1, 2), ErrInvalidOperation)
	require.ErrorIs(t, m2.SetNodeKey(n1, 2), ErrInvalidOperation)
	require.ErrorIs(t, m2.RemoveNode(nil), ErrInvalidOperation)
	require.Equal(t, int64(1), m2.Len())

	require.NoError(t, m1.RemoveNode(n1))
	require.ErrorIs(t, m1.RemoveNode(n1), ErrInvalidOperation)
}

func TestMap_FreeList(t *testing.T) {
	m := NewOrderedMap[int, int]()
	n := m.FindNode(0)
	require.Nil(t, n)
	for i := 0; i < 8; i++ {
		m.Add(i, i)
	}

	n = m.FindNode(3)
	require.True(t, m.Remove(3))
	require.Equal(t, 1, m.tree.free.len())

	recycled, _ := m.Add(100, 100)
	require.Same(t, n, recycled)
	require.Equal(t, 0, m.tree.free.len())

	// A recycled node passed back by the caller is skipped.
	n = m.FindNode(4)
	require.True(t, m.Remove(4))
	hinted, _, err := m.AddWithReuse(200, 200, n)
	require.NoError(t, err)
	require.Same(t, n, hinted)
	fresh, _ := m.Add(300, 300)
	require.NotSame(t, n, fresh)
	require.Equal(t, 0, m.tree.free.len())

	for i := 0; i < DefaultFreeListSize+8; i++ {
		m.Add(1000+i, i)
	}
	for i := 0; i < DefaultFreeListSize+8; i++ {
		m.Remove(1000 + i)
	}
	require.Equal(t, DefaultFreeListSize, m.tree.free.len())
	require.True(t, m.Validate())

	disabled := NewOrderedMap[int, int](WithFreeListSize(0))
	disabled.Add(1, 1)
	n = disabled.FindNode(1)
	disabled.Remove(1)
	other, _ := disabled.Add(2, 2)
	require.NotSame(t, n, other)
	require.Equal(t, 0, disabled.tree.free.len())
}

func TestMap_StaleHandleAfterRemove(t *testing.T) {
	m := NewOrderedMap[int, int]()
	stale, _ := m.Add(1, 1)
	m.Add(2, 2)
	require.True(t, m.Remove(1))

	// Rejected while the node waits in the free list.
	require.True(t, stale.IsUnused())
	require.ErrorIs(t, m.RemoveNode(stale), ErrInvalidOperation)
	require.ErrorIs(t, m.SetNodeValue(stale, 10), ErrInvalidOperation)

	// The next Add recycles it for the new entry.
	recycled, _ := m.Add(3, 3)
	require.Same(t, stale, recycled)
	require.Equal(t, 3, stale.Key())

	// RemoveNode never recycles, the handle stays rejected.
	kept := m.FindNode(2)
	require.NoError(t, m.RemoveNode(kept))
	fresh, _ := m.Add(4, 4)
	require.NotSame(t, kept, fresh)
	require.ErrorIs(t, m.RemoveNode(kept), ErrInvalidOperation)

	// Without a free list Remove never recycles either.
	disabled := NewOrderedMap[int, int](WithFreeListSize(0))
	stale, _ = disabled.Add(1, 1)
	require.True(t, disabled.Remove(1))
	disabled.Add(5, 5)
	require.ErrorIs(t, disabled.RemoveNode(stale), ErrInvalidOperation)
	require.Equal(t, int64(1), disabled.Len())
}

func TestMap_SetNodeKey(t *testing.T) {
	m := NewOrderedMap[int, string]()
	for _, key := range []int{10, 20, 30, 40} {
		m.Add(key, "v"+string(rune('0'+key/10)))
	}

	// in place
	n := m.FindNode(20)
	version := m.Version()
	require.NoError(t, m.SetNodeKey(n, 25))
	require.Equal(t, version, m.Version())
	require.Equal(t, []int{10, 25, 30, 40}, m.Keys().Slice())

	// reorder, the same handle moves
	require.NoError(t, m.SetNodeKey(n, 45))
	require.Greater(t, m.Version(), version)
	require.Same(t, n, m.FindNode(45))
	require.Equal(t, "v2", n.Value())
	require.Equal(t, []int{10, 30, 40, 45}, m.Keys().Slice())
	require.True(t, m.Validate())

	// collision
	require.ErrorIs(t, m.SetNodeKey(n, 10), ErrInvalidArgument)
	require.Equal(t, 45, n.Key())
	require.Equal(t, int64(4), m.Len())

	// same key
	require.NoError(t, m.SetNodeKey(n, 45))
	require.True(t, m.Validate())
}

func TestMap_SetNodeValue(t *testing.T) {
	m := NewOrderedMap[int, int]()
	for i := 0; i < 5; i++ {
		m.Add(i, i)
	}

	e := m.Enumerator()
	require.True(t, e.Next())
	for i := 0; i < 5; i++ {
		require.NoError(t, m.SetNodeValue(m.FindNode(i), i*100))
	}
	values := []int{e.Value()}
	for e.Next() {
		values = append(values, e.Value())
	}
	require.NoError(t, e.Err())
	require.Equal(t, []int{0, 100, 200, 300, 400}, values)
	require.Equal(t, values, m.Values().Slice())
}

func TestMap_EnumeratorFailFast(t *testing.T) {
	m := NewOrderedMap[int, int]()
	for i := 0; i < 5; i++ {
		m.Add(i, i)
	}

	e := m.Enumerator()
	require.True(t, e.Next())
	require.Equal(t, 0, e.Key())
	m.Add(10, 10)
	require.False(t, e.Next())
	require.ErrorIs(t, e.Err(), ErrInvalidOperation)
	require.Nil(t, e.Node())
	require.False(t, e.Next())

	// replacing a value is not structural
	e = m.Enumerator()
	require.True(t, e.Next())
	m.Replace(3, 33)
	require.True(t, e.Next())
	require.NoError(t, e.Err())

	e = m.Keys().Enumerator()
	m.Remove(10)
	require.False(t, e.Next())
	require.ErrorIs(t, e.Err(), ErrInvalidOperation)

	err := m.Foreach(func(idx int64, key int, val int) bool {
		if key == 2 {
			m.Remove(4)
		}
		return true
	})
	require.ErrorIs(t, err, ErrInvalidOperation)
}

func TestMap_Enumerators(t *testing.T) {
	m := NewOrderedMap[int, int]()
	for i := 1; i <= 9; i++ {
		m.Add(i, -i)
	}

	collect := func(e *Enumerator[int, int]) []int {
		keys := make([]int, 0)
		for e.Next() {
			keys = append(keys, e.Key())
		}
		require.NoError(t, e.Err())
		return keys
	}
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, collect(m.Enumerator()))
	require.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1}, collect(m.ReverseEnumerator()))
	require.Equal(t, []int{3, 4, 5, 6}, collect(m.EnumerateRange(ptr(3), ptr(6))))
	require.Equal(t, []int{7, 8, 9}, collect(m.EnumerateRange(ptr(7), nil)))
	require.Equal(t, []int{1, 2}, collect(m.EnumerateRange(nil, ptr(2))))
	require.Empty(t, collect(m.EnumerateRange(ptr(6), ptr(3))))
	require.Empty(t, collect(NewOrderedMap[int, int]().Enumerator()))

	e := m.Enumerator()
	require.Nil(t, e.Node())
	require.Equal(t, 0, e.Key())
	require.Equal(t, 0, e.Value())
	require.True(t, e.Next())
	require.Equal(t, -1, e.Value())
	require.Equal(t, m.First(), e.Node())

	visited := make([]int, 0, 3)
	require.NoError(t, m.Keys().Foreach(func(idx int64, key int) bool {
		visited = append(visited, key)
		return idx < 2
	}))
	require.Equal(t, []int{1, 2, 3}, visited)

	sum := 0
	require.NoError(t, m.Values().Foreach(func(idx int64, val int) bool {
		sum += val
		return true
	}))
	require.Equal(t, -45, sum)
	require.Equal(t, int64(9), m.Keys().Len())
	require.Equal(t, int64(9), m.Values().Len())
	require.True(t, m.Keys().Contains(9))
	require.False(t, m.Keys().Contains(10))
}

type person struct {
	name string
	age  int
}

func TestMap_Comparator(t *testing.T) {
	_, err := NewMap[int, int](nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	// The direction reverses the whole comparator, tie breaking included.
	byAge := func(a, b person) int {
		if c := cmp.Compare(a.age, b.age); c != 0 {
			return c * 1000
		}
		return strings.Compare(a.name, b.name)
	}
	m, err := NewMap[person, struct{}](byAge, WithDescending())
	require.NoError(t, err)
	for _, p := range []person{{"b", 30}, {"a", 30}, {"c", 20}, {"d", 40}} {
		m.Add(p, struct{}{})
	}
	require.True(t, m.Validate())
	require.Equal(t, []person{{"d", 40}, {"b", 30}, {"a", 30}, {"c", 20}}, m.Keys().Slice())
}

func TestMap_NilFirst(t *testing.T) {
	nf := NilFirst(cmp.Compare[int])
	require.Equal(t, 0, nf(nil, nil))
	require.Equal(t, -1, nf(nil, ptr(math.MinInt)))
	require.Equal(t, 1, nf(ptr(0), nil))

	m, err := NewMap[*int, string](nf)
	require.NoError(t, err)
	m.Add(ptr(2), "2")
	m.Add(nil, "nil")
	m.Add(ptr(-5), "-5")
	_, added := m.Add(nil, "nil again")
	require.False(t, added)
	require.Equal(t, []string{"nil", "-5", "2"}, m.Values().Slice())
	require.Nil(t, m.First().Key())
	require.Equal(t, "nil", m.GetUpperBound(ptr[*int](nil)).Value())
	require.Equal(t, "-5", m.GetLowerBound(ptr(ptr(-10))).Value())

	desc, err := NewMap[*int, string](nf, WithDescending())
	require.NoError(t, err)
	desc.Add(ptr(2), "2")
	desc.Add(nil, "nil")
	desc.Add(ptr(-5), "-5")
	require.Equal(t, []string{"2", "-5", "nil"}, desc.Values().Slice())
	require.Nil(t, desc.Last().Key())
}

// preorder returns the shape of the tree.
func preorder[K any, V any](n *Node[K, V], out []string, format func(K) string) []string {
	if n == nil {
		return append(out, "nil")
	}
	out = append(out, format(n.Key())+":"+n.Color().String())
	out = preorder(n.Left(), out, format)
	return preorder(n.Right(), out, format)
}

func TestMap_FastPathEquivalence(t *testing.T) {
	format := func(f float64) string {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	for _, desc := range []bool{false, true} {
		opts := []MapOption{}
		if desc {
			opts = append(opts, WithDescending())
		}
		fast := NewOrderedMap[float64, int](opts...)
		generic := NewOrderedMap[float64, int](append(opts, WithoutFastPath())...)
		_, isFast := fast.tree.strategy.(*orderedSearch[float64, int])
		require.True(t, isFast)
		_, isGeneric := generic.tree.strategy.(*comparatorSearch[float64, int])
		require.True(t, isGeneric)

		inputs := []float64{math.NaN(), 0, math.Copysign(0, -1), math.Inf(1), math.Inf(-1), math.NaN(), 1.5, -2.5}
		for i := 0; i < 512; i++ {
			inputs = append(inputs, math.Round(randv2.NormFloat64()*100)/4)
		}
		for i, key := range inputs {
			n1, added1 := fast.Add(key, i)
			n2, added2 := generic.Add(key, i)
			require.Equal(t, added1, added2)
			require.Equal(t, n1.Value(), n2.Value())
			if i%3 == 0 {
				require.Equal(t, fast.Remove(inputs[i/2]), generic.Remove(inputs[i/2]))
			}
		}
		require.NoError(t, fast.Verify())
		require.NoError(t, generic.Verify())
		require.Equal(t, fast.Len(), generic.Len())
		require.Equal(t, preorder(fast.Root(), nil, format), preorder(generic.Root(), nil, format))

		for _, q := range []float64{math.NaN(), 0, math.Copysign(0, -1), 3, -3, math.Inf(1)} {
			require.Equal(t, fast.ContainsKey(q), generic.ContainsKey(q))
			requireSameKey(t, fast.LowerBound(q), generic.LowerBound(q))
			requireSameKey(t, fast.UpperBound(q), generic.UpperBound(q))
		}
	}
}

func requireSameKey(t *testing.T, a, b *Node[float64, int]) {
	t.Helper()
	if a == nil || b == nil {
		require.True(t, a == nil && b == nil)
		return
	}
	require.Equal(t, 0, cmp.Compare(a.Key(), b.Key()))
}

func TestMap_NaNOrderedFirst(t *testing.T) {
	m := NewOrderedMap[float64, string]()
	m.Add(1, "1")
	m.Add(math.NaN(), "nan")
	m.Add(math.Inf(-1), "-inf")
	_, added := m.Add(math.NaN(), "nan again")
	require.False(t, added)
	require.True(t, math.IsNaN(m.First().Key()))
	require.Equal(t, []string{"nan", "-inf", "1"}, m.Values().Slice())
	require.True(t, m.ContainsKey(math.NaN()))
	require.True(t, m.Remove(math.NaN()))
	require.Equal(t, int64(2), m.Len())
}

func TestMap_VerifyAggregates(t *testing.T) {
	m := NewOrderedMap[int, int]()
	for i := 0; i < 16; i++ {
		m.Add(i, i)
	}
	require.NoError(t, m.Verify())

	m.tree.root.color = Red
	m.tree.count++
	err := m.Verify()
	require.Error(t, err)
	require.False(t, m.Validate())
	require.ErrorIs(t, err, errRBTreeRootViolation)
	require.ErrorIs(t, err, errRBTreeCountViolation)
	require.GreaterOrEqual(t, len(multierr.Errors(err)), 2)

	m.tree.root.color = Black
	m.tree.count--
	m.tree.root.left.key = 100
	err = m.Verify()
	require.ErrorIs(t, err, errRBTreeOrderViolation)
	require.False(t, errors.Is(err, errRBTreeCountViolation))
}

func TestMap_DebugCheck(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerWriter(buf),
		xlog.WithXLoggerEncoder(xlog.JSON),
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
	)
	m := NewOrderedMap[int, int](WithDebugCheck(logger))
	for i := 0; i < 32; i++ {
		m.Add(i, i)
	}
	m.Remove(7)
	require.Empty(t, buf.String())

	m.Root().left.color = Red
	m.Root().left.left.color = Red
	m.afterMutation("corrupt")
	require.Contains(t, buf.String(), "invariants violated")
	require.Contains(t, buf.String(), "red violation")

	broken := NewOrderedMap[int, int](WithDebugCheck(nil))
	broken.Add(1, 1)
	broken.tree.count = 5
	require.Panics(t, func() {
		broken.Add(2, 2)
	})
}

func FuzzMap_AddRemove(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4, 5, 129, 130, 131})
	f.Add([]byte{200, 100, 50, 25, 12, 6, 3, 1, 0, 255})
	f.Fuzz(func(t *testing.T, data []byte) {
		m := NewOrderedMap[byte, int]()
		model := make(map[byte]int)
		for i, b := range data {
			key := b & 0x3f
			if b&0x80 != 0 {
				_, inModel := model[key]
				require.Equal(t, inModel, m.Remove(key))
				delete(model, key)
			} else {
				m.Replace(key, i)
				model[key] = i
			}
			require.NoError(t, m.Verify())
		}
		require.Equal(t, int64(len(model)), m.Len())
		for key, val := range model {
			got, err := m.Get(key)
			require.NoError(t, err)
			require.Equal(t, val, got)
		}
	})
}

func BenchmarkMap_Add(b *testing.B) {
	keys := make([]int, 1<<14)
	for i := range keys {
		keys[i] = randv2.Int()
	}
	b.Run("fast path", func(b *testing.B) {
		m := NewOrderedMap[int, int]()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			key := keys[i&(len(keys)-1)]
			if _, added := m.Add(key, i); !added {
				m.Remove(key)
			}
		}
	})
	b.Run("comparator", func(b *testing.B) {
		m := NewOrderedMap[int, int](WithoutFastPath())
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			key := keys[i&(len(keys)-1)]
			if _, added := m.Add(key, i); !added {
				m.Remove(key)
			}
		}
	})
}

func BenchmarkMap_FindNode(b *testing.B) {
	m := NewOrderedMap[int, int]()
	for i := 0; i < 1<<16; i++ {
		m.Add(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.FindNode(i & (1<<16 - 1))
	}
}
