package tree

import (
	"go.uber.org/multierr"

	"github.com/benz9527/xcoll/lib/infra"
)

func blackDepthTo[K any, V any](target, to *Node[K, V]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.parent {
		if aux.isBlack() {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// RedViolationValidate traverses in order to check that no red node has
// a red child.
func RedViolationValidate[K any, V any](m *Map[K, V]) error {
	return m.tree.redViolation()
}

// BlackViolationValidate checks that every leaf has the same black depth
// to the root.
func BlackViolationValidate[K any, V any](m *Map[K, V]) error {
	return m.tree.blackViolation()
}

func (tree *rbTree[K, V]) redViolation() error {
	aux := tree.root
	if aux == nil {
		return nil
	}

	stack := make([]*Node[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; aux.isRed() {
			if aux.parent.isRed() || aux.left.isRed() || aux.right.isRed() {
				return infra.WrapErrorStackWithMessage(errRBTreeRedViolation, "red node has a red neighbour")
			}
		}

		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
	return nil
}

// BFS traversal to load the nodes with at least one nil leaf.
func (tree *rbTree[K, V]) bfsLeaves() []*Node[K, V] {
	if tree.root == nil {
		return nil
	}

	leaves := make([]*Node[K, V], 0, tree.count>>1+1)
	queue := make([]*Node[K, V], 0, tree.count>>1+1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, tree.root)

	for len(queue) > 0 {
		aux := queue[0]
		l, r := aux.left, aux.right
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func (tree *rbTree[K, V]) blackViolation() error {
	leaves := tree.bfsLeaves()
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo(leaves[0], nil)
	for i := 1; i < len(leaves); i++ {
		if blackDepthTo(leaves[i], nil) != blackDepth {
			return infra.WrapErrorStackWithMessage(errRBTreeBlackViolation, "leaves black depth differ")
		}
	}
	return nil
}

func (tree *rbTree[K, V]) rootViolation() error {
	if tree.root == nil {
		return nil
	}
	if tree.root.parent != nil || !tree.root.isBlack() {
		return infra.WrapErrorStackWithMessage(errRBTreeRootViolation, "root is red or linked to a parent")
	}
	return nil
}

// structureViolation walks the tree once in order, checking the strict key
// order under the active direction, the parent links, the owner and the
// count.
func (tree *rbTree[K, V]) structureViolation() (merr error) {
	var (
		prev  *Node[K, V]
		count int64
		order bool
		link  bool
	)
	stack := make([]*Node[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()

	for aux := tree.root; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		count++

		if !link && (aux.owner != tree || aux.color == Unused ||
			(aux.left != nil && aux.left.parent != aux) ||
			(aux.right != nil && aux.right.parent != aux)) {
			link = true
			merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(errRBTreeLinkViolation, "broken parent or owner link"))
		}
		if !order && prev != nil && tree.compare(prev.key, aux.key) >= 0 {
			order = true
			merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(errRBTreeOrderViolation, "keys out of order"))
		}
		prev = aux

		for r := aux.right; r != nil; r = r.left {
			stack = append(stack, r)
		}
	}

	if count != tree.count {
		merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(errRBTreeCountViolation, "node count differs from length"))
	}
	return merr
}

// verify aggregates every violated invariant.
func (tree *rbTree[K, V]) verify() error {
	return multierr.Combine(
		tree.rootViolation(),
		tree.redViolation(),
		tree.blackViolation(),
		tree.structureViolation(),
	)
}
