package drowsy

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	stateColor = color.RGBA{R: 0xff, A: 0xff}
	alertColor = color.RGBA{G: 0xff, A: 0xff}
	rightColor = color.RGBA{R: 0xff, B: 0xff, A: 0xff}
	leftColor  = color.RGBA{G: 0xff, B: 0xff, A: 0xff}
)

// DrawOverlay prints the session label, the alert banner and the two eye scores onto the frame.
// The score of the first eye is labeled "Right" and the second one "Left",
// as the first crop is the image-left eye of the subject facing the camera.
func DrawOverlay(dst draw.Image, s *Session, left, right float64) {
	drawText(dst, fmt.Sprintf("State: %s", s.Label), image.Pt(10, 30), stateColor)
	if s.Alerting() {
		drawText(dst, "DROWSINESS ALERT!", image.Pt(400, 30), alertColor)
	}
	drawText(dst, fmt.Sprintf("Right: %.4f", left), image.Pt(350, 420), rightColor)
	drawText(dst, fmt.Sprintf("Left: %.4f", right), image.Pt(350, 450), leftColor)
}

// drawText draws the text with its baseline starting at pt.
func drawText(dst draw.Image, text string, pt image.Point, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(pt.X, pt.Y),
	}
	d.DrawString(text)
}

// drawable returns a mutable copy of the frame in case it doesn't support drawing.
func drawable(frame image.Image) draw.Image {
	if dst, ok := frame.(draw.Image); ok {
		return dst
	}
	return imaging.Clone(frame)
}
