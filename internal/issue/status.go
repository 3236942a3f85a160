package issue

// Status is the closed set of workflow states a sprint report knows about.
// The declaration order is the report order: more complete states first.
type Status int

const (
	StatusUnknown Status = iota - 1
	StatusDone
	StatusLanded
	StatusInvalid
	StatusWontDo
	StatusInReview
	StatusInProgress
	StatusOpen
	StatusBlocked
)

var statusNames = map[Status]string{
	StatusDone:       "Done",
	StatusLanded:     "Landed",
	StatusInvalid:    "Invalid",
	StatusWontDo:     "Won't Do",
	StatusInReview:   "In Review",
	StatusInProgress: "In Progress",
	StatusOpen:       "Open",
	StatusBlocked:    "Blocked",
}

var statusByName = func() map[string]Status {
	m := make(map[string]Status, len(statusNames))
	for s, n := range statusNames {
		m[n] = s
	}
	return m
}()

// ParseStatus maps a display name to its Status. Unrecognized names yield StatusUnknown.
func ParseStatus(name string) Status {
	if s, ok := statusByName[name]; ok {
		return s
	}
	return StatusUnknown
}

// Rank is the position in the report order; StatusUnknown ranks -1.
func (s Status) Rank() int { return int(s) }

// IsDone reports whether points of this status count as completed.
func (s Status) IsDone() bool {
	switch s {
	case StatusDone, StatusLanded, StatusInvalid, StatusWontDo:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "Unknown"
}
