package browse

// Mode is the active interaction context. Exactly one is active at a time:
// Normal, Detail or Input.
type Mode interface {
	isMode()
}

// Normal is list navigation.
type Normal struct{}

// Detail shows the selected item in full, scrolled down by Scroll lines.
type Detail struct {
	Scroll int
}

// InputTarget says what a committed Input buffer is used for.
type InputTarget int

const (
	TargetPrimary InputTarget = iota // search query
	TargetCompare                    // package to add to the comparison
)

// Input collects a line of text.
type Input struct {
	Target InputTarget
	Buffer string
}

func (Normal) isMode() {}
func (Detail) isMode() {}
func (Input) isMode()  {}

// scrollBy moves scroll by delta, saturating at 0 and limit.
func scrollBy(scroll, delta, limit int) int {
	return min(max(scroll+delta, 0), max(limit, 0))
}
