package timeline

// State is the playback state of a Timeline.
type State int

const (
	Idle State = iota
	Playing
	Paused
	Completed
	Looping
)

var stateNames = [...]string{
	Idle:      "idle",
	Playing:   "playing",
	Paused:    "paused",
	Completed: "completed",
	Looping:   "looping",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// running reports whether frames are being scheduled in this state.
func (s State) running() bool {
	return s == Playing || s == Looping
}
