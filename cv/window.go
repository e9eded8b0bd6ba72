package cv

import (
	"image"

	"github.com/esimov/drowsy"
	"gocv.io/x/gocv"
)

var _ drowsy.Display = (*Window)(nil)

const keyEscape = 27

// Window displays the annotated frames in a highgui window.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a new display window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays the frame and polls the keyboard. Pressing q or ESC,
// or closing the window, requests the monitor to quit.
func (w *Window) Show(frame image.Image) bool {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return false
	}
	defer mat.Close()

	w.win.IMShow(mat)
	key := w.win.WaitKey(1)
	if key == 'q' || key == keyEscape {
		return true
	}
	return !w.win.IsOpen()
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
