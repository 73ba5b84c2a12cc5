package tree

// Node is a stable handle to one entry of a Map.
// The handle stays valid, pointing to the same entry, through any number of
// rotations until the entry itself is removed. A removed node is Unused and
// its fields are cleared.
type Node[K any, V any] struct {
	parent *Node[K, V]
	left   *Node[K, V]
	right  *Node[K, V]
	owner  *rbTree[K, V] // nil while Unused
	key    K
	val    V
	color  RBColor
}

func (node *Node[K, V]) Key() K {
	return node.key
}

func (node *Node[K, V]) Value() V {
	return node.val
}

func (node *Node[K, V]) Color() RBColor {
	if node == nil {
		return Black
	}
	return node.color
}

func (node *Node[K, V]) Parent() *Node[K, V] {
	if node == nil {
		return nil
	}
	return node.parent
}

func (node *Node[K, V]) Left() *Node[K, V] {
	if node == nil {
		return nil
	}
	return node.left
}

func (node *Node[K, V]) Right() *Node[K, V] {
	if node == nil {
		return nil
	}
	return node.right
}

// IsUnused reports whether the node is not linked into any tree.
func (node *Node[K, V]) IsUnused() bool {
	return node != nil && node.color == Unused
}

// Next returns the in-order successor, or nil at the end.
// The order is the iteration order of the owning map, so it is
// mirrored for a descending map.
func (node *Node[K, V]) Next() *Node[K, V] {
	if node == nil || node.color == Unused {
		return nil
	}
	return node.succ()
}

// Prev returns the in-order predecessor, or nil at the beginning.
func (node *Node[K, V]) Prev() *Node[K, V] {
	if node == nil || node.color == Unused {
		return nil
	}
	return node.pred()
}

func (node *Node[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

// Absent children are black leaves.
func (node *Node[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *Node[K, V]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *Node[K, V]) direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *Node[K, V]) child(dir RBDirection) *Node[K, V] {
	if dir == Left {
		return node.left
	}
	return node.right
}

// setChild links c under node on the dir side, c may be nil.
func (node *Node[K, V]) setChild(dir RBDirection, c *Node[K, V]) {
	if dir == Left {
		node.left = c
	} else {
		node.right = c
	}
	if c != nil {
		c.parent = node
	}
}

func (node *Node[K, V]) sibling() *Node[K, V] {
	switch node.direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *Node[K, V]) uncle() *Node[K, V] {
	return node.parent.sibling()
}

func (node *Node[K, V]) grandpa() *Node[K, V] {
	return node.parent.parent
}

func (node *Node[K, V]) minimum() *Node[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *Node[K, V]) maximum() *Node[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (node *Node[K, V]) pred() *Node[K, V] {
	x := node
	if x.left != nil {
		return x.left.maximum()
	}

	aux := x.parent
	// Backtrack to the first ancestor which x is in its right subtree.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *Node[K, V]) succ() *Node[K, V] {
	x := node
	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to the first ancestor which x is in its left subtree.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

// reset clears a removed node and marks it Unused.
func (node *Node[K, V]) reset() {
	var (
		zeroK K
		zeroV V
	)
	node.parent, node.left, node.right = nil, nil, nil
	node.owner = nil
	node.key, node.val = zeroK, zeroV
	node.color = Unused
}
