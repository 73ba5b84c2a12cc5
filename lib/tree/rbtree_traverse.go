package tree

func (tree *rbTree[K, V]) first() *Node[K, V] {
	return tree.root.minimum()
}

func (tree *rbTree[K, V]) last() *Node[K, V] {
	return tree.root.maximum()
}

// lowerBound returns the first node not ordered before key.
// The search lands on a node whose key neighbours key, one step forward
// is enough if it landed before key.
func (tree *rbTree[K, V]) lowerBound(key K) *Node[K, V] {
	res, n := tree.search(key)
	if n == nil || res == 0 {
		return n
	}
	if res > 0 {
		return n.succ()
	}
	return n
}

// upperBound returns the last node not ordered after key.
func (tree *rbTree[K, V]) upperBound(key K) *Node[K, V] {
	res, n := tree.search(key)
	if n == nil || res == 0 {
		return n
	}
	if res < 0 {
		return n.pred()
	}
	return n
}

func (tree *rbTree[K, V]) lowerBoundOrFirst(key *K) *Node[K, V] {
	if key == nil {
		return tree.first()
	}
	return tree.lowerBound(*key)
}

func (tree *rbTree[K, V]) upperBoundOrLast(key *K) *Node[K, V] {
	if key == nil {
		return tree.last()
	}
	return tree.upperBound(*key)
}

// window returns the inclusive bounds of [lower, upper], nil means
// unbounded. An empty or inverted window returns nil nodes.
func (tree *rbTree[K, V]) window(lower, upper *K) (*Node[K, V], *Node[K, V]) {
	lo := tree.lowerBoundOrFirst(lower)
	hi := tree.upperBoundOrLast(upper)
	if lo == nil || hi == nil || tree.compare(lo.key, hi.key) > 0 {
		return nil, nil
	}
	return lo, hi
}

// Using the stack to iterate the tree in order, the callback stops the
// traversal by returning false.
func (tree *rbTree[K, V]) foreach(action func(idx int64, node *Node[K, V]) bool) {
	aux := tree.root
	if aux == nil || action == nil {
		return
	}

	stack := make([]*Node[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		if !action(idx, aux) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}
