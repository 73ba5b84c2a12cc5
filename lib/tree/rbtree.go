package tree

import (
	"github.com/benz9527/xcoll/lib/infra"
)

// rbTree is the engine shared by the map facade, the set and the multimap.
// It is not thread safe.
type rbTree[K any, V any] struct {
	root     *Node[K, V]
	count    int64
	version  uint64 // bumped on every structural mutation
	desc     bool
	strategy searchStrategy[K, V]
	free     *freeList[K, V]
}

func (tree *rbTree[K, V]) compare(a, b K) int {
	return tree.strategy.compare(a, b)
}

func (tree *rbTree[K, V]) search(key K) (int, *Node[K, V]) {
	return tree.strategy.search(tree.root, key)
}

func (tree *rbTree[K, V]) owns(node *Node[K, V]) bool {
	return node != nil && node.color != Unused && node.owner == tree
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child.
// The longest path nodes' number is at most 2 * shortest path nodes' number.

/*
rotate(X, Left) moves X down to the left, its right child S takes its place.
rotate(S, Right) is the inverse.

		 |                         |
		 X                         S
		/ \    rotate(X, Left)    / \
	   L   S   ==============>   X   Sd
		  / \                   / \
		Sc   Sd                L   Sc

The node identities never change, only the links, so a node handle held by
the caller still points to the same entry after any number of rotations.
*/
func (tree *rbTree[K, V]) rotate(x *Node[K, V], dir RBDirection) {
	y := x.child(-dir)
	if y == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] rotate node without the opposite child")
	}

	p, xDir := x.parent, x.direction()
	x.setChild(-dir, y.child(dir))
	y.setChild(dir, x)
	y.parent = p

	switch xDir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to rotate")
	}
}

func (tree *rbTree[K, V]) leftRotate(x *Node[K, V]) {
	tree.rotate(x, Left)
}

func (tree *rbTree[K, V]) rightRotate(x *Node[K, V]) {
	tree.rotate(x, Right)
}

// transplant puts v into u's slot of the parent. v may be nil.
func (tree *rbTree[K, V]) transplant(u, v *Node[K, V]) {
	switch u.direction() {
	case Root:
		tree.root = v
	case Left:
		u.parent.left = v
	case Right:
		u.parent.right = v
	default:
	}
	if v != nil {
		v.parent = u.parent
	}
}

func (tree *rbTree[K, V]) obtainNode(reuse *Node[K, V]) *Node[K, V] {
	if reuse != nil {
		return reuse
	}
	return tree.free.newNode()
}

// probe searches key and links a new red node at the insertion point if
// the key is absent. If the key is present, the existing node is returned
// and its value is overwritten only if replace is true.
// i1: Empty rbtree, the new node becomes the root and is painted black.
func (tree *rbTree[K, V]) probe(key K, val V, reuse *Node[K, V], replace bool) (*Node[K, V], bool, error) {
	if reuse != nil && !reuse.IsUnused() {
		return nil, false, infra.WrapErrorStackWithMessage(ErrInvalidOperation, "reuse a node which is still in a tree")
	}

	res, y := tree.search(key)
	if y != nil && res == 0 {
		if replace {
			y.val = val
		}
		return y, false, nil
	}

	z := tree.obtainNode(reuse)
	z.key, z.val = key, val
	z.left, z.right, z.parent = nil, nil, y
	z.owner = tree
	z.color = Red
	if /* i1 */ y == nil {
		tree.root = z
	} else if res < 0 {
		y.left = z
	} else {
		y.right = z
	}

	tree.count++
	tree.version++
	tree.insertRebalance(z)
	return z, true, nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: X's parent P is black, nothing violated.

im2: Both of the parent P and the uncle U are red, grandpa G must be black.
Repaint P and U into black and G into red. G may be red-violation against
its own parent now, continue from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im3: P is red but U is black. X is the inner child of G.
Rotate P to straighten X into the outer position, then enter im4 from P.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im4: P is red but U is black. X is the outer child of G.
Rotate G to the opposite side and repaint, the loop terminates.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]

The root is repainted into black at the end unconditionally.
*/
func (tree *rbTree[K, V]) insertRebalance(x *Node[K, V]) {
	// A red parent is never the root, so the grandpa exists.
	for /* im1 */ x.parent.isRed() {
		if /* im2 */ x.uncle().isRed() {
			x = tree.insertCaseRedUncle(x)
			continue
		}
		if /* im3 */ x.direction() != x.parent.direction() {
			x = tree.insertCaseInnerChild(x)
		}
		/* im4 */
		tree.insertCaseOuterChild(x)
		break
	}
	tree.root.color = Black
}

// insertCaseRedUncle returns the grandpa to continue the loop with.
func (tree *rbTree[K, V]) insertCaseRedUncle(x *Node[K, V]) *Node[K, V] {
	g := x.grandpa()
	x.parent.color = Black
	x.uncle().color = Black
	g.color = Red
	return g
}

// insertCaseInnerChild returns the former parent, which is the outer child
// after the rotation.
func (tree *rbTree[K, V]) insertCaseInnerChild(x *Node[K, V]) *Node[K, V] {
	p := x.parent
	tree.rotate(p, p.direction())
	return p
}

func (tree *rbTree[K, V]) insertCaseOuterChild(x *Node[K, V]) {
	p, g := x.parent, x.grandpa()
	tree.rotate(g, -p.direction())
	p.color = Black
	g.color = Red
}

/*
removeNode unlinks z by structural splice, the payload of another node is
never moved into z.

r1: z has at most one child. The child (or NIL) takes z's slot.

r2: z has two children. The in-order successor S (the minimum of the right
subtree, without left child) takes z's slot and color. The fixup starts at
S's original position with S's original color.

	  |                    |
	  Z                    S
	 / \                  / \
	L  ..   splice(S)    L  ..
		|   ========>        |
		P                    P
	   / \                  / \
	  S  ..               Sr  ..
	   \
	   Sr

Only the removal of a black node reduces the black height of a path.
*/
func (tree *rbTree[K, V]) removeNode(z *Node[K, V]) {
	var (
		x       *Node[K, V] // the node moved into the vacated position, may be NIL
		xp      *Node[K, V] // the parent of the vacated position
		xDir    RBDirection
		rmColor = z.color
	)

	if /* r1 */ z.left == nil || z.right == nil {
		if x = z.left; x == nil {
			x = z.right
		}
		xp, xDir = z.parent, z.direction()
		tree.transplant(z, x)
	} else /* r2 */ {
		y := z.right.minimum()
		rmColor, x = y.color, y.right
		if y.parent == z {
			xp, xDir = y, Right
		} else {
			xp, xDir = y.parent, Left
			tree.transplant(y, x)
			y.setChild(Right, z.right)
		}
		tree.transplant(z, y)
		y.setChild(Left, z.left)
		y.color = z.color
	}

	if rmColor == Black {
		tree.removeRebalance(x, xp, xDir)
	}

	z.reset()
	tree.count--
	tree.version++
}

/*
X carries an extra black (the path through X lost one black node).
X may be NIL, so its parent P and its direction are tracked explicitly.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the child of the sibling S at the same side as X (near nephew).
Sd is the child of the sibling S at the opposite side of X (far nephew).

rm0: X is red or X is the root. Paint X into black, done.

rm1: The sibling S is red, so P, Sc and Sd must be black.
Rotate P to X's side and swap the colors of P and S. X gets a black sibling
(the former Sc), enter rm2 - rm5.

	  [P]                   <S>               [S]
	  / \    rotate(P)      / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S, Sc and Sd are black and P is red.
Swap the colors of P and S, done.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: P, S, Sc and Sd are all black.
Paint S into red, the whole subtree of P lost one black. Continue from P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: S is black, Sc is red and Sd is black.
Rotate S away from X and swap the colors of S and Sc, enter rm5.

	  {P}                    {P}
	  / \                    / \
	[X] [S]   rotate(S)    [X] [Sc]
	    / \   =========>         \
	  <Sc> [Sd]                  <S>
	                               \
	                               [Sd]

rm5: S is black and Sd is red.
Rotate P to X's side, S takes P's color, P and Sd are painted into black.
The extra black is absorbed, done.

	  {P}                   {S}
	  / \    rotate(P)      / \
	[X] [S]  ==========>  [P] [Sd]
	    / \               / \
	 {Sc} <Sd>          [X] {Sc}
*/
func (tree *rbTree[K, V]) removeRebalance(x, xp *Node[K, V], dir RBDirection) {
	for xp != nil && x.isBlack() {
		// The sibling exists, its side keeps at least one black node.
		s := xp.child(-dir)
		if /* rm1 */ s.isRed() {
			s = tree.removeCaseRedSibling(xp, dir)
		}

		if s.child(dir).isBlack() && s.child(-dir).isBlack() {
			if /* rm2 */ xp.isRed() {
				tree.removeCaseBlackNephewsRedParent(xp, s)
				return
			}
			/* rm3 */
			x = tree.removeCaseBlackNephewsBlackParent(xp, s)
			xp, dir = x.parent, x.direction()
			continue
		}

		if /* rm4 */ s.child(-dir).isBlack() {
			s = tree.removeCaseNearNephewRed(xp, s, dir)
		}
		/* rm5 */
		tree.removeCaseFarNephewRed(xp, s, dir)
		return
	}
	/* rm0 */
	tree.removeCaseAbsorb(x)
}

func (tree *rbTree[K, V]) removeCaseAbsorb(x *Node[K, V]) {
	if x != nil {
		x.color = Black
	}
}

// removeCaseRedSibling returns the new sibling of the deficient side.
func (tree *rbTree[K, V]) removeCaseRedSibling(xp *Node[K, V], dir RBDirection) *Node[K, V] {
	s := xp.child(-dir)
	s.color = Black
	xp.color = Red
	tree.rotate(xp, dir)
	return xp.child(-dir)
}

func (tree *rbTree[K, V]) removeCaseBlackNephewsRedParent(xp, s *Node[K, V]) {
	s.color = Red
	xp.color = Black
}

// removeCaseBlackNephewsBlackParent returns the parent which carries the
// extra black now.
func (tree *rbTree[K, V]) removeCaseBlackNephewsBlackParent(xp, s *Node[K, V]) *Node[K, V] {
	s.color = Red
	return xp
}

// removeCaseNearNephewRed returns the new sibling, whose far child is red.
func (tree *rbTree[K, V]) removeCaseNearNephewRed(xp, s *Node[K, V], dir RBDirection) *Node[K, V] {
	sc := s.child(dir)
	sc.color = Black
	s.color = Red
	tree.rotate(s, -dir)
	return xp.child(-dir)
}

func (tree *rbTree[K, V]) removeCaseFarNephewRed(xp, s *Node[K, V], dir RBDirection) {
	sd := s.child(-dir)
	s.color = xp.color
	xp.color = Black
	sd.color = Black
	tree.rotate(xp, dir)
}

// release unlinks all nodes iteratively, the in-order stack keeps the
// memory bounded by the tree height.
func (tree *rbTree[K, V]) release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	stack := make([]*Node[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		r := aux.right
		aux.reset()
		for ; r != nil; r = r.left {
			stack = append(stack, r)
		}
	}
	tree.count = 0
	tree.version++
	tree.free.release()
}
