package drowsy

import (
	"context"
	"errors"
	"image"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// FrameSource supplies the camera frames. Read returns false when no frame could be grabbed.
type FrameSource interface {
	Read() (image.Image, bool)
	Close() error
}

// Display shows the annotated frames. Show returns true once the user asked to quit.
type Display interface {
	Show(frame image.Image) (quit bool)
	Close() error
}

// Alerter raises the drowsiness alarm. Alert must not block the caller.
type Alerter interface {
	Alert()
}

// Classifier scores the openness of a normalized eye image.
type Classifier interface {
	Score(eye *image.Gray) (float64, error)
}

// Stats holds the frame counters of a monitoring session.
type Stats struct {
	Frames    int
	Processed int
	Skipped   int
	Alerts    int
}

// Result is the outcome of a processed frame.
type Result struct {
	Left, Right float64
	// Trigger is set on the frame which switched the alarm on.
	Trigger bool
}

// Monitor runs the per-frame detection loop: frame source, eye extraction,
// classification, drowsiness state update, alerting and display.
type Monitor struct {
	Source     FrameSource
	Display    Display
	Pipeline   *Pipeline
	Classifier Classifier
	// Alerter is optional; without it the alarm state is still tracked.
	Alerter Alerter
	Session *Session
	Logger  *logrus.Entry
	Stats   Stats
}

// NewMonitor creates a monitor with a fresh session.
func NewMonitor(src FrameSource, disp Display, p *Pipeline, c Classifier, a Alerter, log *logrus.Entry) *Monitor {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Monitor{
		Source:     src,
		Display:    disp,
		Pipeline:   p,
		Classifier: c,
		Alerter:    a,
		Session:    NewSession(),
		Logger:     log,
	}
}

// Step runs the decision core over a single frame. It returns false when the
// frame carries no usable eyes, in which case the session is left untouched.
func (m *Monitor) Step(frame image.Image) (Result, bool) {
	left, right, ok := m.Pipeline.Eyes(frame)
	if !ok {
		return Result{}, false
	}
	ls, err := m.Classifier.Score(left.Image)
	if err != nil {
		m.Logger.WithError(err).Debug("could not score the left eye")
		return Result{}, false
	}
	rs, err := m.Classifier.Score(right.Image)
	if err != nil {
		m.Logger.WithError(err).Debug("could not score the right eye")
		return Result{}, false
	}

	prev := m.Session.Label
	res := Result{Left: ls, Right: rs}
	res.Trigger = m.Session.Update(ls, rs)

	if prev != m.Session.Label {
		m.Logger.WithFields(logrus.Fields{
			"frame": m.Stats.Frames,
			"left":  ls,
			"right": rs,
		}).Infof("state changed to %s", m.Session.Label)
	}
	if res.Trigger {
		m.Stats.Alerts++
		m.Logger.WithFields(logrus.Fields{
			"frame":  m.Stats.Frames,
			"closed": m.Session.ClosedFrames,
		}).Warn("drowsiness alarm")
		if m.Alerter != nil {
			m.Alerter.Alert()
		}
	}
	return res, true
}

// Run processes the frames one after the other until the display reports
// a quit request or the context gets cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	start := time.Now()
	defer func() {
		m.Logger.WithFields(logrus.Fields{
			"frames":    m.Stats.Frames,
			"processed": m.Stats.Processed,
			"skipped":   m.Stats.Skipped,
			"alerts":    m.Stats.Alerts,
			"duration":  time.Since(start).Round(time.Millisecond).String(),
		}).Info("monitoring stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		default:
		}

		frame, ok := m.Source.Read()
		if !ok {
			m.Stats.Skipped++
			m.Logger.Debug("no frame received from the source")
			continue
		}
		m.Stats.Frames++

		res, ok := m.Step(frame)
		if !ok {
			m.Stats.Skipped++
			continue
		}
		m.Stats.Processed++

		dst := drawable(frame)
		DrawOverlay(dst, m.Session, res.Left, res.Right)
		if m.Display.Show(dst) {
			return nil
		}
	}
}

// Close releases the frame source and the display.
func (m *Monitor) Close() error {
	return errors.Join(m.Source.Close(), m.Display.Close())
}
