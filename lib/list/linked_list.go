package list

import (
	"github.com/benz9527/xcoll/lib/infra"
)

var _ LinkedList[struct{}] = (*doublyLinkedList[struct{}])(nil) // Type check assertion

var errLinkedListEmpty = infra.NewErrorStack("[doubly-linked-list] empty")

/*
doublyLinkedList is circular with a sentinel root, the root never carries
a value.

	 +-------------------------------------+
	 |                                     |
	 +-> root <-> e1 <-> e2 <-> ... <-> en +

An empty list links the root to itself.
*/
type doublyLinkedList[T any] struct {
	root *NodeElement[T]
	len  int64
}

func NewLinkedList[T any]() LinkedList[T] {
	return new(doublyLinkedList[T]).init()
}

func (l *doublyLinkedList[T]) init() *doublyLinkedList[T] {
	l.root = &NodeElement[T]{
		listRef: l,
	}
	l.root.next, l.root.prev = l.root, l.root
	l.len = 0
	return l
}

func (l *doublyLinkedList[T]) Len() int64 {
	return l.len
}

func (l *doublyLinkedList[T]) contains(e *NodeElement[T]) bool {
	return e != nil && e != l.root && e.listRef == l && e.prev != nil && e.next != nil
}

// link puts newE immediately after at.
func (l *doublyLinkedList[T]) link(newE, at *NodeElement[T]) *NodeElement[T] {
	newE.listRef = l
	newE.prev = at
	newE.next = at.next
	at.next.prev = newE
	at.next = newE
	l.len++
	return newE
}

func (l *doublyLinkedList[T]) unlink(e *NodeElement[T]) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

func (l *doublyLinkedList[T]) Front() *NodeElement[T] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

func (l *doublyLinkedList[T]) Back() *NodeElement[T] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}

func (l *doublyLinkedList[T]) PushFront(v T) *NodeElement[T] {
	return l.link(newNodeElement(v, l), l.root)
}

func (l *doublyLinkedList[T]) PushBack(v T) *NodeElement[T] {
	return l.link(newNodeElement(v, l), l.root.prev)
}

func (l *doublyLinkedList[T]) InsertAfter(v T, dstE *NodeElement[T]) *NodeElement[T] {
	if !l.contains(dstE) {
		return nil
	}
	return l.link(newNodeElement(v, l), dstE)
}

func (l *doublyLinkedList[T]) InsertBefore(v T, dstE *NodeElement[T]) *NodeElement[T] {
	if !l.contains(dstE) {
		return nil
	}
	return l.link(newNodeElement(v, l), dstE.prev)
}

func (l *doublyLinkedList[T]) Remove(targetE *NodeElement[T]) *NodeElement[T] {
	if l.len == 0 || !l.contains(targetE) {
		return nil
	}

	l.unlink(targetE)
	// avoid memory leaks
	targetE.listRef = nil
	targetE.next = nil
	targetE.prev = nil

	l.len--
	return targetE
}

// move puts src next to dst.
func (l *doublyLinkedList[T]) move(src, dst *NodeElement[T]) bool {
	if src == dst || dst.next == src {
		return false
	}
	l.unlink(src)
	src.prev = dst
	src.next = dst.next
	src.next.prev = src
	dst.next = src
	return true
}

func (l *doublyLinkedList[T]) MoveToFront(targetE *NodeElement[T]) bool {
	if !l.contains(targetE) {
		return false
	}
	return l.move(targetE, l.root)
}

func (l *doublyLinkedList[T]) MoveToBack(targetE *NodeElement[T]) bool {
	if !l.contains(targetE) {
		return false
	}
	return l.move(targetE, l.root.prev)
}

// Foreach, allows remove linked list elements while iterating.
func (l *doublyLinkedList[T]) Foreach(fn func(idx int64, e *NodeElement[T]) error) error {
	if fn == nil || l.len == 0 {
		return errLinkedListEmpty
	}

	var (
		iterator       = l.root.next
		idx      int64 = 0
	)
	for iterator != l.root {
		n := iterator.next
		if err := fn(idx, iterator); err != nil {
			return err
		}
		iterator = n
		idx++
	}
	return nil
}

// ReverseForeach, allows remove linked list elements while iterating.
func (l *doublyLinkedList[T]) ReverseForeach(fn func(idx int64, e *NodeElement[T]) bool) {
	if fn == nil || l.len == 0 {
		return
	}

	var (
		iterator       = l.root.prev
		idx      int64 = 0
	)
	for iterator != l.root {
		p := iterator.prev
		if !fn(idx, iterator) {
			return
		}
		iterator = p
		idx++
	}
}
