// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package sparserun

// engine is the shared run-list engine (C3) underlying every facade. It
// holds the head of the node list and implements overwrite — the single
// mutating primitive used by both Set and Delete — plus the rank/select
// queries, length/count, clone, and iteration helpers.
//
// engine has no exported surface of its own; every facade (SparseArray,
// SparseString, SparseIndices) wraps one with its own itemOps[I].
type engine[I any] struct {
	ops  itemOps[I]
	head *node[I]
}

func newEngine[I any](ops itemOps[I]) *engine[I] {
	return &engine[I]{ops: ops}
}

// length is the sum of node lengths, minus the length of a trailing deleted
// node if any (the untrimmed tail of invariant 4 is invisible to length).
func (e *engine[I]) length() int {
	total := 0
	var last *node[I]
	for n := e.head; n != nil; n = n.next {
		total += n.length(e.ops)
		last = n
	}
	if last != nil && last.kind == kindDeleted {
		total -= last.gap
	}
	return total
}

// count is the sum of length(item) over present nodes.
func (e *engine[I]) count() int {
	total := 0
	for n := e.head; n != nil; n = n.next {
		if n.kind == kindPresent {
			total += e.ops.length(n.item)
		}
	}
	return total
}

// isEmpty reports whether no present node exists.
func (e *engine[I]) isEmpty() bool {
	for n := e.head; n != nil; n = n.next {
		if n.kind == kindPresent {
			return false
		}
	}
	return true
}

// has reports whether logical index i is present. i < 0 is the caller's
// responsibility to reject before calling has.
func (e *engine[I]) has(i int) bool {
	pos := 0
	for n := e.head; n != nil; n = n.next {
		ln := n.length(e.ops)
		if i < pos+ln {
			return n.kind == kindPresent
		}
		pos += ln
	}
	return false
}

// countAt returns the number of present positions in [0,i). i >= length is
// accepted and yields count().
func (e *engine[I]) countAt(i int) int {
	total, _ := e.countHas(i)
	return total
}

// countHas is the fused query returning both countAt(i) and has(i) in a
// single walk of the list.
func (e *engine[I]) countHas(i int) (atCount int, present bool) {
	total := 0
	pos := 0
	for n := e.head; n != nil; n = n.next {
		ln := n.length(e.ops)
		if pos+ln <= i {
			if n.kind == kindPresent {
				total += ln
			}
			pos += ln
			continue
		}
		within := i - pos
		if n.kind == kindPresent {
			total += within
			return total, true
		}
		return total, false
	}
	return total, false
}

// indexOfCount returns the smallest i >= start such that there are c present
// positions in [start,i) and position i is present, or -1 if none exists.
func (e *engine[I]) indexOfCount(c, start int) int {
	pos := 0
	n := e.head
	for n != nil {
		ln := n.length(e.ops)
		if pos+ln <= start {
			pos += ln
			n = n.next
			continue
		}
		break
	}
	if n == nil {
		return -1
	}

	remaining := c
	if n.kind == kindPresent {
		// The prefix of this node already consumed by [start, node-start)
		// counts toward c before we walk forward.
		remaining += start - pos
	}

	curPos := pos
	for n != nil {
		ln := n.length(e.ops)
		if n.kind == kindPresent {
			if remaining < ln {
				return curPos + remaining
			}
			remaining -= ln
		}
		curPos += ln
		n = n.next
	}
	return -1
}

// getItemAt returns the single-index item slice at i (length 1) and true,
// or the zero value and false if i is absent or beyond the container.
func (e *engine[I]) getItemAt(i int) (item I, ok bool) {
	pos := 0
	for n := e.head; n != nil; n = n.next {
		ln := n.length(e.ops)
		if i < pos+ln {
			if n.kind != kindPresent {
				var zero I
				return zero, false
			}
			return e.ops.slice(n.item, i-pos, i-pos+1), true
		}
		pos += ln
	}
	var zero I
	return zero, false
}

// locateBoundary guarantees a node boundary exists at absolute index idx,
// splitting an existing node or extending the tail with a deleted node as
// needed. It returns prev, the node immediately preceding the boundary (nil
// if the boundary is at the list head), and slot, the address of the
// pointer field that holds the node starting exactly at idx (nil-valued if
// idx is the current end of the list). The invariant slot == (prev == nil ?
// &e.head : &prev.next) holds for every return path.
func (e *engine[I]) locateBoundary(idx int) (prev *node[I], slot **node[I]) {
	slot = &e.head
	pos := 0
	for *slot != nil {
		n := *slot
		ln := n.length(e.ops)
		if pos == idx {
			return prev, slot
		}
		if pos+ln <= idx {
			pos += ln
			prev = n
			slot = &n.next
			continue
		}

		// idx falls strictly inside n: split it.
		k := idx - pos
		if n.kind == kindPresent {
			left, right := e.ops.split(n.item, k)
			n.item = left
			n.next = &node[I]{kind: kindPresent, item: right, next: n.next}
		} else {
			rightLen := n.gap - k
			n.gap = k
			n.next = &node[I]{kind: kindDeleted, gap: rightLen, next: n.next}
		}
		return n, &n.next
	}

	if idx > pos {
		ext := &node[I]{kind: kindDeleted, gap: idx - pos}
		*slot = ext
		return ext, &ext.next
	}
	return prev, slot
}

// fuse attempts to merge right into left per the merge discipline: deleted
// nodes always fuse by summing lengths; present nodes fuse iff tryMerge
// succeeds; a present/deleted pair never fuses. On success left is mutated
// in place to represent the merged run and true is returned.
func (e *engine[I]) fuse(left, right *node[I]) bool {
	if left.kind == kindDeleted && right.kind == kindDeleted {
		left.gap += right.gap
		return true
	}
	if left.kind == kindPresent && right.kind == kindPresent {
		merged, ok := e.ops.tryMerge(left.item, right.item)
		if ok {
			left.item = merged
		}
		return ok
	}
	return false
}

// overwrite replaces the span [idx, idx+length(newNode)) with newNode and
// returns the previous occupants of that span as a fresh engine. It is the
// single mutating primitive; Set and Delete are both expressed in terms of
// it. newNode.next is overwritten by overwrite and must not be reused by the
// caller afterwards.
func (e *engine[I]) overwrite(idx int, newNode *node[I]) *engine[I] {
	newLen := newNode.length(e.ops)
	if newLen <= 0 {
		return newEngine[I](e.ops)
	}

	// A trailing deleted node is grown in place to cover the written span,
	// so that locateBoundary never appends a second deleted node after it.
	total := 0
	var last *node[I]
	for n := e.head; n != nil; n = n.next {
		total += n.length(e.ops)
		last = n
	}
	if last != nil && last.kind == kindDeleted && idx+newLen > total {
		last.gap += idx + newLen - total
	}

	leftPrev, leftSlot := e.locateBoundary(idx)
	_, rightSlot := e.locateBoundary(idx + newLen)

	afterNode := *rightSlot
	*rightSlot = nil
	displacedHead := *leftSlot
	*leftSlot = newNode
	newNode.next = afterNode

	cur := newNode
	if leftPrev != nil {
		if e.fuse(leftPrev, cur) {
			next := cur.next
			leftPrev.next = next
			cur = leftPrev
		}
	}
	if afterNode != nil {
		if e.fuse(cur, afterNode) {
			cur.next = afterNode.next
		}
	}

	return &engine[I]{ops: e.ops, head: displacedHead}
}

// clone returns a structural copy of e: nodes and items are copied, but
// payload values embedded in items are not deep-cloned here (facades that
// want deep value clones do so via the valuekit Cloner hook on top of this).
func (e *engine[I]) clone(cloneItem func(I) I) *engine[I] {
	out := &engine[I]{ops: e.ops}
	tail := &out.head
	for n := e.head; n != nil; n = n.next {
		var nn *node[I]
		if n.kind == kindPresent {
			item := n.item
			if cloneItem != nil {
				item = cloneItem(item)
			}
			nn = &node[I]{kind: kindPresent, item: item}
		} else {
			nn = &node[I]{kind: kindDeleted, gap: n.gap}
		}
		*tail = nn
		tail = &nn.next
	}
	return out
}

// walk calls fn once per node in order with the node's absolute start
// index. Stops early if fn returns false.
func (e *engine[I]) walk(fn func(start int, n *node[I]) bool) {
	pos := 0
	for n := e.head; n != nil; n = n.next {
		if !fn(pos, n) {
			return
		}
		pos += n.length(e.ops)
	}
}
