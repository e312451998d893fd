package rolling

// Closed describes which edges of a window include their boundary position. For a trailing window the
// right edge is the current position and the left edge is the position window-size steps back; for a
// timestamp offset window the edges are the boundary timestamps themselves.
type Closed string

const (
	// ClosedRight includes the right edge and excludes the left. This is the default for strategies that
	// honor closure.
	ClosedRight Closed = "right"
	// ClosedLeft includes the left edge and excludes the right.
	ClosedLeft Closed = "left"
	// ClosedBoth includes both edges.
	ClosedBoth Closed = "both"
	// ClosedNeither excludes both edges.
	ClosedNeither Closed = "neither"
)

// valid returns whether c is unset or one of the defined closures.
func (c Closed) valid() bool {
	switch c {
	case "", ClosedRight, ClosedLeft, ClosedBoth, ClosedNeither:
		return true
	}
	return false
}
