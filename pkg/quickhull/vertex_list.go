package quickhull

import "github.com/golang/geo/r3"

// VertexNode is an input point threaded into a VertexList.
type VertexNode struct {
	Point r3.Vector
	// Index is the position of the point in the input slice.
	Index int

	prev *VertexNode
	next *VertexNode
	// face that can currently see this vertex, noFace otherwise
	face FaceID
}

func newVertexNode(p r3.Vector, index int) *VertexNode {
	return &VertexNode{Point: p, Index: index, face: noFace}
}

func (v *VertexNode) Next() *VertexNode { return v.next }
func (v *VertexNode) Prev() *VertexNode { return v.prev }

// VertexList is an intrusive doubly linked list of vertex nodes.
// Nodes are never copied, only relinked.
//
//	[v, v, ..., v, v, v, ...]
//	 ^             ^
//	 |             |
//	a.outside   b.outside
type VertexList struct {
	head *VertexNode
	tail *VertexNode
}

func (l *VertexList) First() *VertexNode { return l.head }
func (l *VertexList) Last() *VertexNode  { return l.tail }
func (l *VertexList) IsEmpty() bool      { return l.head == nil }

func (l *VertexList) Clear() {
	l.head = nil
	l.tail = nil
}

// InsertBefore links v right before target.
func (l *VertexList) InsertBefore(target, v *VertexNode) {
	v.prev = target.prev
	v.next = target

	if v.prev == nil {
		l.head = v
	} else {
		v.prev.next = v
	}

	target.prev = v
}

// InsertAfter links v right after target.
func (l *VertexList) InsertAfter(target, v *VertexNode) {
	v.prev = target
	v.next = target.next

	if v.next == nil {
		l.tail = v
	} else {
		v.next.prev = v
	}

	target.next = v
}

func (l *VertexList) Append(v *VertexNode) {
	if l.head == nil {
		l.head = v
	} else {
		l.tail.next = v
	}

	v.prev = l.tail
	v.next = nil
	l.tail = v
}

// AppendChain appends an already linked run starting at v. It walks the run
// to find the new tail.
func (l *VertexList) AppendChain(v *VertexNode) {
	if l.head == nil {
		l.head = v
	} else {
		l.tail.next = v
	}

	v.prev = l.tail

	for v.next != nil {
		v = v.next
	}
	l.tail = v
}

// Remove unlinks v. Its own prev/next links are left untouched.
func (l *VertexList) Remove(v *VertexNode) {
	if v.prev == nil {
		l.head = v.next
	} else {
		v.prev.next = v.next
	}

	if v.next == nil {
		l.tail = v.prev
	} else {
		v.next.prev = v.prev
	}
}

// RemoveSubList unlinks the run a..b (inclusive) and returns a. The detached
// run keeps its inner links; its outer ends are cut.
func (l *VertexList) RemoveSubList(a, b *VertexNode) *VertexNode {
	if a.prev == nil {
		l.head = b.next
	} else {
		a.prev.next = b.next
	}

	if b.next == nil {
		l.tail = a.prev
	} else {
		b.next.prev = a.prev
	}

	a.prev = nil
	b.next = nil
	return a
}

// Len walks the list.
func (l *VertexList) Len() int {
	n := 0
	for v := l.head; v != nil; v = v.next {
		n++
	}
	return n
}

// Nodes returns the nodes in list order.
func (l *VertexList) Nodes() []*VertexNode {
	var nodes []*VertexNode
	for v := l.head; v != nil; v = v.next {
		nodes = append(nodes, v)
	}
	return nodes
}
