// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

// handle identifies a node slot inside a recencyList arena.
type handle int32

const (
	nilHandle handle = -1

	// Sentinels occupy the first two slots and never carry a key.
	headSentinel handle = 0
	tailSentinel handle = 1

	maxPrealloc = 1024
)

type node[K comparable, V any] struct {
	key   K
	value V
	prev  handle
	next  handle
}

// recencyList is a doubly linked list ordered from most recently used
// (after headSentinel) to least recently used (before tailSentinel).
//
// Links are slot indices into nodes rather than pointers, so a node can be
// recycled through the free list without any reference outliving it.
// Not safe for concurrent use; the owning Cache serializes access.
type recencyList[K comparable, V any] struct {
	nodes []node[K, V]
	free  []handle
	len   int
}

func newRecencyList[K comparable, V any](capacity int) *recencyList[K, V] {
	l := &recencyList[K, V]{
		nodes: make([]node[K, V], 2, min(capacity, maxPrealloc)+2),
	}
	l.init()
	return l
}

func (l *recencyList[K, V]) init() {
	l.nodes[headSentinel] = node[K, V]{prev: nilHandle, next: tailSentinel}
	l.nodes[tailSentinel] = node[K, V]{prev: headSentinel, next: nilHandle}
}

// alloc stores key and value in a detached slot and returns its handle.
func (l *recencyList[K, V]) alloc(key K, value V) handle {
	n := node[K, V]{key: key, value: value, prev: nilHandle, next: nilHandle}
	if last := len(l.free) - 1; last >= 0 {
		h := l.free[last]
		l.free = l.free[:last]
		l.nodes[h] = n
		return h
	}
	l.nodes = append(l.nodes, n)
	return handle(len(l.nodes) - 1)
}

// release returns a detached slot to the free list. The zeroed slot drops
// its references to the key and value.
func (l *recencyList[K, V]) release(h handle) {
	l.nodes[h] = node[K, V]{prev: nilHandle, next: nilHandle}
	l.free = append(l.free, h)
}

func (l *recencyList[K, V]) unlink(h handle) {
	prev, next := l.nodes[h].prev, l.nodes[h].next
	l.nodes[prev].next = next
	l.nodes[next].prev = prev
	l.nodes[h].prev, l.nodes[h].next = nilHandle, nilHandle
	l.len--
}

func (l *recencyList[K, V]) pushFront(h handle) {
	first := l.nodes[headSentinel].next
	l.nodes[h].prev = headSentinel
	l.nodes[h].next = first
	l.nodes[headSentinel].next = h
	l.nodes[first].prev = h
	l.len++
}

func (l *recencyList[K, V]) moveToFront(h handle) {
	if l.nodes[headSentinel].next == h {
		return
	}
	l.unlink(h)
	l.pushFront(h)
}

// back returns the least recently used node, if any.
func (l *recencyList[K, V]) back() (handle, bool) {
	h := l.nodes[tailSentinel].prev
	return h, h != headSentinel
}

// reset drops every node and relinks the sentinels.
func (l *recencyList[K, V]) reset() {
	clear(l.nodes[2:])
	l.nodes = l.nodes[:2]
	l.free = l.free[:0]
	l.len = 0
	l.init()
}
