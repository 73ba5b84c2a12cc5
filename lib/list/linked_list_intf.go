package list

// Note that the linked list is not thread safe.

// LinkedList is the circular doubly linked list interface.
// The element handles are bound to the list which created them, an element
// of another list is ignored by every operation.
type LinkedList[T any] interface {
	Len() int64
	// Front returns the first element of list l or nil if the list is empty.
	Front() *NodeElement[T]
	// Back returns the last element of list l or nil if the list is empty.
	Back() *NodeElement[T]
	// PushFront inserts a new element with value v at the front of list l and returns it.
	PushFront(v T) *NodeElement[T]
	// PushBack inserts a new element with value v at the back of list l and returns it.
	PushBack(v T) *NodeElement[T]
	// InsertAfter inserts a value v as a new element immediately after element dstE and returns new element.
	// If dstE is not an element of l, the value v will not be inserted.
	InsertAfter(v T, dstE *NodeElement[T]) *NodeElement[T]
	// InsertBefore inserts a value v as a new element immediately before element dstE and returns new element.
	// If dstE is not an element of l, the value v will not be inserted.
	InsertBefore(v T, dstE *NodeElement[T]) *NodeElement[T]
	// Remove removes targetE from l if targetE is an element of list l and returns targetE,
	// otherwise it returns nil.
	Remove(targetE *NodeElement[T]) *NodeElement[T]
	// MoveToFront moves an element e to the front of list l.
	MoveToFront(targetE *NodeElement[T]) bool
	// MoveToBack moves an element e to the back of list l.
	MoveToBack(targetE *NodeElement[T]) bool
	// Foreach traverses the list l and executes function fn for each element.
	// If fn returns an error, the traversal stops and returns the error.
	Foreach(fn func(idx int64, e *NodeElement[T]) error) error
	// ReverseForeach iterates the list in reverse order, calling fn for each element,
	// until either all elements have been visited or fn returns false.
	ReverseForeach(fn func(idx int64, e *NodeElement[T]) bool)
}
