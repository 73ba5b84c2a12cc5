package tree

// DefaultFreeListSize is the number of removed nodes a map keeps for reuse.
const DefaultFreeListSize = 32

// References:
// https://github.com/google/btree/blob/master/btree_generic.go (FreeListG)

// freeList recycles the nodes removed by key, the handles of which were
// never returned by the removal. A node may also be handed back by the
// caller as a reuse hint while it is still here, so a node is only popped
// if it is still Unused.
type freeList[K any, V any] struct {
	nodes []*Node[K, V]
}

func newFreeList[K any, V any](size int) *freeList[K, V] {
	if size <= 0 {
		return nil
	}
	return &freeList[K, V]{nodes: make([]*Node[K, V], 0, size)}
}

func (f *freeList[K, V]) newNode() *Node[K, V] {
	if f == nil {
		return new(Node[K, V])
	}
	for index := len(f.nodes) - 1; index >= 0; index = len(f.nodes) - 1 {
		n := f.nodes[index]
		f.nodes[index] = nil
		f.nodes = f.nodes[:index]
		if n.IsUnused() {
			return n
		}
	}
	return new(Node[K, V])
}

func (f *freeList[K, V]) freeNode(n *Node[K, V]) bool {
	if f == nil || len(f.nodes) >= cap(f.nodes) {
		return false
	}
	f.nodes = append(f.nodes, n)
	return true
}

func (f *freeList[K, V]) len() int {
	if f == nil {
		return 0
	}
	return len(f.nodes)
}

func (f *freeList[K, V]) release() {
	if f == nil {
		return
	}
	clear(f.nodes)
	f.nodes = f.nodes[:0]
}
