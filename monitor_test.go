package drowsy

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noFace marks the frames on which the stub detector finds no face.
const noFace = 1

// stubSource replays the frames. A nil frame is a failed read.
// The context is cancelled once all the frames were consumed.
type stubSource struct {
	frames []image.Image
	cancel context.CancelFunc
	reads  int
	err    error
}

func (s *stubSource) Read() (image.Image, bool) {
	if s.reads >= len(s.frames) {
		if s.cancel != nil {
			s.cancel()
		}
		return nil, false
	}
	frame := s.frames[s.reads]
	s.reads++
	return frame, frame != nil
}

func (s *stubSource) Close() error { return s.err }

type stubDisplay struct {
	shown  int
	quitAt int
	err    error
}

func (d *stubDisplay) Show(frame image.Image) bool {
	d.shown++
	return d.quitAt > 0 && d.shown >= d.quitAt
}

func (d *stubDisplay) Close() error { return d.err }

// stubClassifier returns the scores one after the other, two per frame.
type stubClassifier struct {
	scores []float64
	calls  int
	err    error
}

func (c *stubClassifier) Score(eye *image.Gray) (float64, error) {
	if c.err != nil {
		return 0, c.err
	}
	sc := c.scores[c.calls%len(c.scores)]
	c.calls++
	return sc, nil
}

type stubAlerter struct {
	alerts int
}

func (a *stubAlerter) Alert() { a.alerts++ }

type markerDetector struct{}

func (markerDetector) DetectFaces(gray *image.Gray, minSize int) []image.Rectangle {
	if gray.Pix[0] == noFace {
		return nil
	}
	return []image.Rectangle{image.Rect(10, 5, 90, 55)}
}

func faceFrame() image.Image {
	return symmetricFrame(100, 60)
}

func noFaceFrame() image.Image {
	img := symmetricFrame(100, 60)
	img.SetGray(0, 0, color.Gray{Y: noFace})
	return img
}

func repeat(frame func() image.Image, n int) []image.Image {
	frames := make([]image.Image, n)
	for i := range frames {
		frames[i] = frame()
	}
	return frames
}

func newTestMonitor(t *testing.T, frames []image.Image, c Classifier, a Alerter) (*Monitor, *stubDisplay, *test.Hook, context.Context) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	src := &stubSource{frames: frames, cancel: cancel}
	disp := &stubDisplay{}
	pl := NewPipeline(markerDetector{}, &stubPredictor{lm: validLandmarks()})

	return NewMonitor(src, disp, pl, c, a, logrus.NewEntry(logger)), disp, hook, ctx
}

func TestMonitor_AlarmOnClosedEyes(t *testing.T) {
	alerter := &stubAlerter{}
	m, disp, hook, ctx := newTestMonitor(t, repeat(faceFrame, 20), &stubClassifier{scores: []float64{0.05}}, alerter)

	require.NoError(t, m.Run(ctx))

	assert.Equal(t, 1, alerter.alerts)
	assert.Equal(t, Stats{Frames: 20, Processed: 20, Skipped: 1, Alerts: 1}, m.Stats)
	assert.Equal(t, 20, disp.shown)
	assert.Equal(t, 20, m.Session.ClosedFrames)
	assert.True(t, m.Session.AlarmOn)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "drowsiness alarm" {
			warned = true
			assert.Equal(t, 15, e.Data["frame"])
		}
	}
	assert.True(t, warned)
	assert.Equal(t, "monitoring stopped", hook.LastEntry().Message)
}

func TestMonitor_OpenEyes(t *testing.T) {
	alerter := &stubAlerter{}
	m, _, _, ctx := newTestMonitor(t, repeat(faceFrame, 30), &stubClassifier{scores: []float64{0.8, 0.1}}, alerter)

	require.NoError(t, m.Run(ctx))

	assert.Zero(t, alerter.alerts)
	assert.Equal(t, Awake, m.Session.Label)
	assert.Zero(t, m.Session.ClosedFrames)
}

func TestMonitor_SkippedFramesKeepTheSession(t *testing.T) {
	frames := repeat(faceFrame, 10)
	frames = append(frames, nil, noFaceFrame(), nil, noFaceFrame(), noFaceFrame())
	frames = append(frames, repeat(faceFrame, 5)...)

	alerter := &stubAlerter{}
	m, disp, _, ctx := newTestMonitor(t, frames, &stubClassifier{scores: []float64{0.05}}, alerter)

	require.NoError(t, m.Run(ctx))

	// The frames without a face neither reset nor advance the closed frame counter.
	assert.Equal(t, 15, m.Session.ClosedFrames)
	assert.Equal(t, 1, alerter.alerts)
	assert.Equal(t, 15, disp.shown)
	assert.Equal(t, 18, m.Stats.Frames)
	assert.Equal(t, 15, m.Stats.Processed)
	// Two failed reads, three frames without a face and the final read.
	assert.Equal(t, 6, m.Stats.Skipped)
}

func TestMonitor_ClassifierError(t *testing.T) {
	c := &stubClassifier{err: errors.New("inference failed")}
	m, disp, hook, ctx := newTestMonitor(t, repeat(faceFrame, 5), c, nil)

	require.NoError(t, m.Run(ctx))

	assert.Zero(t, disp.shown)
	assert.Zero(t, m.Stats.Processed)
	assert.Empty(t, m.Session.Label)

	var logged int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.DebugLevel && e.Data[logrus.ErrorKey] == c.err {
			logged++
		}
	}
	assert.Equal(t, 5, logged)
}

func TestMonitor_WithoutAlerter(t *testing.T) {
	m, _, _, ctx := newTestMonitor(t, repeat(faceFrame, 16), &stubClassifier{scores: []float64{0.05}}, nil)

	assert.NotPanics(t, func() {
		require.NoError(t, m.Run(ctx))
	})
	assert.Equal(t, 1, m.Stats.Alerts)
	assert.True(t, m.Session.AlarmOn)
}

func TestMonitor_Quit(t *testing.T) {
	m, disp, _, ctx := newTestMonitor(t, repeat(faceFrame, 10), &stubClassifier{scores: []float64{0.5}}, nil)
	disp.quitAt = 3

	require.NoError(t, m.Run(ctx))
	assert.Equal(t, 3, disp.shown)
	assert.Equal(t, 3, m.Stats.Processed)
}

func TestMonitor_CancelledContext(t *testing.T) {
	m, disp, _, _ := newTestMonitor(t, repeat(faceFrame, 10), &stubClassifier{scores: []float64{0.5}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, m.Run(ctx))
	assert.Zero(t, disp.shown)
	assert.Zero(t, m.Stats.Frames)
}

func TestMonitor_Step(t *testing.T) {
	m, _, hook, _ := newTestMonitor(t, nil, &stubClassifier{scores: []float64{0.05, 0.1}}, nil)

	res, ok := m.Step(faceFrame())
	require.True(t, ok)
	assert.Equal(t, 0.05, res.Left)
	assert.Equal(t, 0.1, res.Right)
	assert.False(t, res.Trigger)
	assert.Equal(t, Sleeping, m.Session.Label)
	assert.Equal(t, "state changed to Sleeping", hook.LastEntry().Message)

	_, ok = m.Step(noFaceFrame())
	assert.False(t, ok)
	assert.Equal(t, 1, m.Session.ClosedFrames)
}

func TestMonitor_Close(t *testing.T) {
	srcErr := errors.New("source")
	dispErr := errors.New("display")

	m := NewMonitor(&stubSource{err: srcErr}, &stubDisplay{err: dispErr}, nil, nil, nil, nil)
	err := m.Close()

	assert.ErrorIs(t, err, srcErr)
	assert.ErrorIs(t, err, dispErr)
}
