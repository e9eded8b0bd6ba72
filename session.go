package drowsy

// State is the label shown for the monitored subject.
type State string

const (
	Awake    State = "Awake"
	Sleeping State = "Sleeping"
)

// Default decision parameters.
const (
	// ClosedThreshold is the openness score under which an eye counts as closed.
	ClosedThreshold = 0.15
	// ClosedFrames is the number of consecutive closed eye frames raising the alarm.
	ClosedFrames = 15
)

// Session holds the drowsiness state of a monitoring session.
// It is updated once for every frame on which both eyes were scored.
type Session struct {
	// ClosedFrames counts the consecutive frames with both eyes closed.
	ClosedFrames int
	AlarmOn      bool
	Label        State

	Threshold float64
	Debounce  int
}

// NewSession returns a session in its initial state using the default parameters.
func NewSession() *Session {
	return &Session{
		Threshold: ClosedThreshold,
		Debounce:  ClosedFrames,
	}
}

// Update feeds the openness scores of the two eyes into the session.
// It returns true only on the frame where the alarm gets switched on;
// while the eyes stay closed the alarm is not triggered again.
// An open eye resets the counter and rearms the alarm.
func (s *Session) Update(left, right float64) bool {
	if left < s.Threshold && right < s.Threshold {
		s.ClosedFrames++
		s.Label = Sleeping
		if s.ClosedFrames >= s.Debounce && !s.AlarmOn {
			s.AlarmOn = true
			return true
		}
		return false
	}
	s.ClosedFrames = 0
	s.AlarmOn = false
	s.Label = Awake

	return false
}

// Alerting reports whether the eyes have been closed long enough to raise the alarm.
func (s *Session) Alerting() bool {
	return s.ClosedFrames >= s.Debounce
}
