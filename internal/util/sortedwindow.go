package util

import "math"

// SortedWindow maintains an exact quantile over a sliding window of samples using a dual-linked list
// structure. Samples leave in insertion order via RemoveOldest, which lets a caller slide the window by
// evicting exactly the entries that fell off its trailing edge. Queries interpolate linearly between the
// two order statistics straddling the target rank and are O(1); insertion is O(k) where k is the distance
// from the current quantile anchor (typically very small for overlapping windows).
//
// This type is not concurrency safe.
type SortedWindow struct {
	quantile float64
	size     int

	// Insertion-ordered doubly-linked list (for sliding window eviction)
	timeHead *sortedNode
	timeTail *sortedNode

	// Value-ordered doubly-linked list (for rank lookup)
	valueHead *sortedNode

	// Anchor pointer to the node at the target rank
	anchor    *sortedNode
	anchorPos int // Current 0-indexed position of anchor in sorted order

	// Last evicted node, reused by the next Add
	free *sortedNode
}

type sortedNode struct {
	value float64

	// Insertion ordering
	timeNext *sortedNode
	timePrev *sortedNode

	// Value ordering
	valueNext *sortedNode
	valuePrev *sortedNode
}

// NewSortedWindow creates a new SortedWindow for the given quantile (0-1). For example, quantile=0.5
// tracks the median of whatever samples are currently in the window.
func NewSortedWindow(quantile float64) *SortedWindow {
	return &SortedWindow{
		quantile: quantile,
	}
}

// Add adds a sample to the window.
func (w *SortedWindow) Add(value float64) {
	// Reuse the last evicted node if available
	node := w.free
	if node != nil {
		w.free = nil
		node.value = value
	} else {
		node = &sortedNode{value: value}
	}

	// Insert at tail of insertion-ordered list (newest)
	w.insertTimeOrdered(node)

	// Insert into value-ordered list (starting from the anchor for efficiency)
	// This also updates anchorPos if needed
	w.insertValueOrdered(node)

	// Move the anchor to the target rank
	w.updateAnchor()
}

// RemoveOldest evicts the least recently added sample. It is a no-op on an empty window.
func (w *SortedWindow) RemoveOldest() {
	if node := w.removeOldest(); node != nil {
		w.free = node
	}
	w.updateAnchor()
}

// Value returns the current quantile value, interpolating linearly between the two nearest order
// statistics when the target rank is fractional, or NaN if the window is empty.
func (w *SortedWindow) Value() float64 {
	if w.anchor == nil {
		return math.NaN()
	}
	rank := float64(w.size-1) * w.quantile
	frac := rank - math.Floor(rank)
	if frac == 0 || w.anchor.valueNext == nil {
		return w.anchor.value
	}
	low := w.anchor.value
	return low + (w.anchor.valueNext.value-low)*frac
}

// Size returns the current number of samples in the window.
func (w *SortedWindow) Size() int {
	return w.size
}

// Reset clears all samples from the window.
func (w *SortedWindow) Reset() {
	w.timeHead = nil
	w.timeTail = nil
	w.valueHead = nil
	w.anchor = nil
	w.anchorPos = 0
	w.size = 0
	w.free = nil
}

// insertTimeOrdered appends a node to the end of the insertion-ordered list (O(1))
func (w *SortedWindow) insertTimeOrdered(node *sortedNode) {
	if w.timeHead == nil {
		w.timeHead = node
		w.timeTail = node
	} else {
		w.timeTail.timeNext = node
		node.timePrev = w.timeTail
		w.timeTail = node
	}
	w.size++
}

// insertValueOrdered inserts a node into the value-ordered list, starting the search from the anchor.
// This gives O(k) performance where k is the distance from the anchor (typically small).
// Also updates anchorPos if the new node lands before the anchor.
func (w *SortedWindow) insertValueOrdered(node *sortedNode) {
	// Empty list
	if w.valueHead == nil {
		w.valueHead = node
		return
	}

	// Start search from the anchor if available, otherwise from head
	start := w.anchor
	if start == nil {
		start = w.valueHead
	}

	// Determine search direction
	if node.value < start.value {
		// Search backward toward smaller values
		curr := start
		for curr.valuePrev != nil && curr.valuePrev.value > node.value {
			curr = curr.valuePrev
		}

		// Insert before curr
		node.valueNext = curr
		node.valuePrev = curr.valuePrev
		if curr.valuePrev != nil {
			curr.valuePrev.valueNext = node
		} else {
			w.valueHead = node
		}
		curr.valuePrev = node
	} else {
		// Search forward toward larger values
		curr := start
		for curr.valueNext != nil && curr.valueNext.value < node.value {
			curr = curr.valueNext
		}

		// Insert after curr
		node.valuePrev = curr
		node.valueNext = curr.valueNext
		if curr.valueNext != nil {
			curr.valueNext.valuePrev = node
		}
		curr.valueNext = node
	}

	// If we have an anchor and the new node is before it, increment its position
	if w.anchor != nil && node.value < w.anchor.value {
		w.anchorPos++
	}
}

// removeOldest removes the oldest node and returns it for reuse. It also updates anchorPos to an
// approximate position, and updateAnchor must be called to recompute an accurate one.
// Returns nil if there are no nodes to remove.
func (w *SortedWindow) removeOldest() *sortedNode {
	if w.timeHead == nil {
		return nil
	}

	oldNode := w.timeHead

	// Remove from insertion-ordered list (O(1))
	w.timeHead = oldNode.timeNext
	if w.timeHead != nil {
		w.timeHead.timePrev = nil
	} else {
		w.timeTail = nil
	}

	// A node with the anchor's value is interchangeable with the anchor in sorted order, but it may sit
	// on either side of it, which the position bookkeeping below cannot tell apart. Swapping it into the
	// anchor's slot first makes the removal happen at an exactly known position.
	if w.anchor != nil && oldNode != w.anchor && oldNode.value == w.anchor.value {
		w.swapValueSlots(oldNode, w.anchor)
		w.anchor = oldNode
	}

	// Remove from value-ordered list (O(1))
	if oldNode.valuePrev != nil {
		oldNode.valuePrev.valueNext = oldNode.valueNext
	} else {
		w.valueHead = oldNode.valueNext
	}
	if oldNode.valueNext != nil {
		oldNode.valueNext.valuePrev = oldNode.valuePrev
	}

	// Update anchor tracking
	if w.anchor == oldNode {
		// Case 1: Removed the anchor node itself
		if oldNode.valueNext != nil {
			// Move to next node in sorted order - it's now at our old position
			w.anchor = oldNode.valueNext
			// anchorPos stays the same - valueNext is now at this index
		} else if oldNode.valuePrev != nil {
			// No next node, move to previous - we're now one position back
			w.anchor = oldNode.valuePrev
			w.anchorPos--
		} else {
			// This was the only node - window is now empty
			w.anchor = nil
			w.anchorPos = 0
		}
	} else if w.anchor != nil && oldNode.value < w.anchor.value {
		// Case 2: Removed a node before the anchor in sorted order
		// All nodes shift down by one position, so decrement the anchor position
		w.anchorPos--
	}

	w.size--

	// Clear pointers before returning for reuse
	oldNode.timeNext = nil
	oldNode.timePrev = nil
	oldNode.valueNext = nil
	oldNode.valuePrev = nil
	return oldNode
}

// swapValueSlots exchanges which slots two equal valued nodes occupy in the value-ordered list. The
// list's order is unchanged because the nodes hold the same value.
func (w *SortedWindow) swapValueSlots(a, b *sortedNode) {
	if b.valueNext == a {
		a, b = b, a
	}
	if a.valueNext == b {
		prev, next := a.valuePrev, b.valueNext
		b.valuePrev, b.valueNext = prev, a
		a.valuePrev, a.valueNext = b, next
		if prev != nil {
			prev.valueNext = b
		} else {
			w.valueHead = b
		}
		if next != nil {
			next.valuePrev = a
		}
		return
	}

	aPrev, aNext := a.valuePrev, a.valueNext
	bPrev, bNext := b.valuePrev, b.valueNext
	a.valuePrev, a.valueNext = bPrev, bNext
	b.valuePrev, b.valueNext = aPrev, aNext
	if aPrev != nil {
		aPrev.valueNext = b
	} else {
		w.valueHead = b
	}
	if aNext != nil {
		aNext.valuePrev = b
	}
	if bPrev != nil {
		bPrev.valueNext = a
	} else {
		w.valueHead = a
	}
	if bNext != nil {
		bNext.valuePrev = a
	}
}

// updateAnchor moves the anchor to the node at the target rank, the floor of (size-1) * quantile.
// Uses the tracked anchorPos for O(k) updates where k is typically very small.
func (w *SortedWindow) updateAnchor() {
	if w.size == 0 {
		w.anchor = nil
		w.anchorPos = 0
		return
	}

	// Calculate target position (0-indexed)
	targetPos := int(float64(w.size-1) * w.quantile)

	// If no anchor yet, traverse from head
	if w.anchor == nil {
		w.anchor = w.valueHead
		w.anchorPos = 0
		for w.anchorPos < targetPos && w.anchor != nil && w.anchor.valueNext != nil {
			w.anchor = w.anchor.valueNext
			w.anchorPos++
		}
		return
	}

	// Move the anchor forward or backward as needed using the tracked position
	if w.anchorPos < targetPos {
		// Move forward
		for w.anchorPos < targetPos && w.anchor.valueNext != nil {
			w.anchor = w.anchor.valueNext
			w.anchorPos++
		}
	} else if w.anchorPos > targetPos {
		// Move backward
		for w.anchorPos > targetPos && w.anchor.valuePrev != nil {
			w.anchor = w.anchor.valuePrev
			w.anchorPos--
		}
	}
}
