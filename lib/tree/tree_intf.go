package tree

import "errors"

// RBColor is the color of a node. The zero value marks a node that is not
// linked into any tree, so a zero Node can be passed as a reuse hint.
type RBColor uint8

const (
	Unused RBColor = iota
	Black
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	case Unused:
		return "Unused"
	default:
	}
	return "RBColor(?)"
}

// RBDirection is the side of a node relative to its parent.
// Negating a direction gives the opposite side.
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
	}
	return "Root"
}

// Comparator defines a total order over keys.
// It returns a negative number if a < b, zero if a == b and a positive
// number if a > b. The result is clamped to -1, 0, 1 by the tree.
type Comparator[K any] func(a, b K) int

// NilFirst orders nil pointers before every non-nil pointer and treats
// two nil pointers as equal. Non-nil pointers are ordered by cmp on the
// pointed values.
// Under a descending map the nil pointers come last.
func NilFirst[T any](cmp Comparator[T]) Comparator[*T] {
	return func(a, b *T) int {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		case b == nil:
			return 1
		}
		return cmp(*a, *b)
	}
}

var (
	// ErrInvalidArgument an argument the map is unable to order or accept.
	ErrInvalidArgument = errors.New("[rbtree] invalid argument")
	// ErrKeyNotFound a keyed read on a missing key.
	ErrKeyNotFound = errors.New("[rbtree] key not found")
	// ErrInvalidOperation an enumerator used after a structural mutation,
	// or a node handle which is not owned by the map.
	ErrInvalidOperation = errors.New("[rbtree] invalid operation")

	errRBTreeRedViolation   = errors.New("[rbtree] red violation")
	errRBTreeBlackViolation = errors.New("[rbtree] black violation")
	errRBTreeRootViolation  = errors.New("[rbtree] root violation")
	errRBTreeOrderViolation = errors.New("[rbtree] order violation")
	errRBTreeLinkViolation  = errors.New("[rbtree] link violation")
	errRBTreeCountViolation = errors.New("[rbtree] count violation")
)
