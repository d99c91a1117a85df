package browse

// LoadStatus is the lifecycle of a fetched list.
type LoadStatus int

const (
	NotLoading LoadStatus = iota
	Loading
	Loaded
	Failed
)

func (s LoadStatus) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// LoadState is a LoadStatus plus the error message for Failed.
type LoadState struct {
	Status  LoadStatus
	Message string
}

// feed is one remotely fetched list. At most one fetch per feed is in
// flight; the tick starts a fetch when the feed is Loading and idle.
type feed[T any] struct {
	items    []T
	state    LoadState
	inFlight bool
}

func (f *feed[T]) markLoading() {
	f.state = LoadState{Status: Loading}
}

// needsFetch reports whether the tick should start a fetch.
func (f *feed[T]) needsFetch() bool {
	return f.state.Status == Loading && !f.inFlight
}

// begin marks a fetch as started.
func (f *feed[T]) begin() {
	f.state = LoadState{Status: Loading}
	f.inFlight = true
}

func (f *feed[T]) succeed(items []T) {
	f.items = items
	f.state = LoadState{Status: Loaded}
	f.inFlight = false
}

func (f *feed[T]) fail(err error) {
	f.state = LoadState{Status: Failed, Message: err.Error()}
	f.inFlight = false
}

// stale drops an outdated result, leaving the feed Loading so the next
// tick fetches again.
func (f *feed[T]) stale() {
	f.inFlight = false
}

// visible returns the items the user can see and act on. Items kept from
// an earlier load are hidden while the feed is Loading or Failed.
func (f *feed[T]) visible() []T {
	if f.state.Status != Loaded {
		return nil
	}
	return f.items
}

func (f *feed[T]) len() int {
	return len(f.visible())
}
