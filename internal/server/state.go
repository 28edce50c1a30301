package server

// State describes the server container lifecycle state.
type State uint8

const (
	StateAbsent State = iota
	StateStopped
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}
