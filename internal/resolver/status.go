package resolver

// Status is the load state of one element.
type Status int

const (
	NotLoaded Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "not-loaded"
	}
}

// Terminal reports whether no further load will be attempted.
func (s Status) Terminal() bool { return s == Loaded || s == Failed }
