package drowsy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	closed = 0.05
	open   = 0.9
)

func TestSession_InitialState(t *testing.T) {
	s := NewSession()

	assert.Zero(t, s.ClosedFrames)
	assert.False(t, s.AlarmOn)
	assert.Empty(t, s.Label)
	assert.Equal(t, ClosedThreshold, s.Threshold)
	assert.Equal(t, ClosedFrames, s.Debounce)
}

func TestSession_AlarmTriggersOnce(t *testing.T) {
	s := NewSession()

	triggers := 0
	for i := 1; i <= 40; i++ {
		trigger := s.Update(closed, closed)
		if trigger {
			triggers++
			assert.Equal(t, ClosedFrames, i, "alarm should fire on the frame reaching the closed frame limit")
		}
		assert.Equal(t, Sleeping, s.Label)
		assert.Equal(t, i, s.ClosedFrames)
		assert.Equal(t, i >= ClosedFrames, s.AlarmOn)
		assert.Equal(t, i >= ClosedFrames, s.Alerting())
	}
	assert.Equal(t, 1, triggers)
}

func TestSession_OpenEyeResets(t *testing.T) {
	testCases := []struct {
		name        string
		left, right float64
	}{
		{"both eyes open", open, open},
		{"left eye open", open, closed},
		{"right eye open", closed, open},
		{"score at the threshold", ClosedThreshold, ClosedThreshold},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession()
			for i := 0; i < ClosedFrames+5; i++ {
				s.Update(closed, closed)
			}
			assert.True(t, s.AlarmOn)

			trigger := s.Update(tc.left, tc.right)
			assert.False(t, trigger)
			assert.Zero(t, s.ClosedFrames)
			assert.False(t, s.AlarmOn)
			assert.False(t, s.Alerting())
			assert.Equal(t, Awake, s.Label)
		})
	}
}

func TestSession_RearmsAfterOpen(t *testing.T) {
	s := NewSession()

	var triggers []int
	frame := 0
	feed := func(n int, score float64) {
		for i := 0; i < n; i++ {
			frame++
			if s.Update(score, score) {
				triggers = append(triggers, frame)
			}
		}
	}
	feed(20, closed)
	feed(1, open)
	feed(20, closed)

	assert.Equal(t, []int{15, 36}, triggers)
}

// Ten closed frames interrupted by an open one never reach the alarm:
// the counter restarts from zero after the interruption.
func TestSession_InterruptedClosure(t *testing.T) {
	s := NewSession()

	frame := 0
	var triggers []int
	scores := make([]float64, 0, 26)
	for i := 0; i < 10; i++ {
		scores = append(scores, closed)
	}
	scores = append(scores, open)
	for i := 0; i < 15; i++ {
		scores = append(scores, closed)
	}
	for _, sc := range scores {
		frame++
		if s.Update(sc, sc) {
			triggers = append(triggers, frame)
		}
		if frame == 24 {
			assert.Equal(t, 13, s.ClosedFrames)
			assert.False(t, s.AlarmOn)
		}
	}
	assert.Equal(t, []int{26}, triggers)
}

func TestSession_CustomParameters(t *testing.T) {
	s := &Session{Threshold: 0.5, Debounce: 3}

	assert.False(t, s.Update(0.4, 0.4))
	assert.False(t, s.Update(0.4, 0.4))
	assert.True(t, s.Update(0.4, 0.4))
	assert.False(t, s.Update(0.4, 0.4))
	assert.False(t, s.Update(0.6, 0.4))
	assert.Equal(t, Awake, s.Label)
}
