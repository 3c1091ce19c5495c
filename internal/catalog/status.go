package catalog

// Status is the fetch state of the list. Exactly one value holds at a time.
type Status int

const (
	StatusIdle Status = iota
	StatusLoadingInitial
	StatusLoadingMore
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoadingInitial:
		return "loading"
	case StatusLoadingMore:
		return "loading-more"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Mode tells a page fetch whether it restarts the list or extends it.
type Mode int

const (
	ModeReset Mode = iota
	ModeAppend
)

func (m Mode) String() string {
	if m == ModeAppend {
		return "append"
	}
	return "reset"
}
