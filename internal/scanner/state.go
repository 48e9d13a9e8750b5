package scanner

// State is the scanner's position within a cycle.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateFiltering
	StateReporting
	StateWaiting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateFiltering:
		return "filtering"
	case StateReporting:
		return "reporting"
	case StateWaiting:
		return "waiting"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
