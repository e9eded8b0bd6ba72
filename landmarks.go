package drowsy

import "image"

// LandmarkCount is the number of points in the facial landmark layout.
const LandmarkCount = 68

// LandmarkSet holds the 68 facial landmark points in the iBUG 300-W layout.
// Points 36-41 outline the subject's right eye and points 42-47 the left eye,
// each starting at the image-left corner and going clockwise:
// corner, two upper lid points, corner, two lower lid points.
type LandmarkSet [LandmarkCount]image.Point

// Range is a half-open interval of landmark indices.
type Range struct {
	Start, End int
}

// Eye regions of the 68 point layout.
var (
	RightEyeRange = Range{Start: 36, End: 42}
	LeftEyeRange  = Range{Start: 42, End: 48}
)

// Eye returns the points of the given index range.
func (lm *LandmarkSet) Eye(r Range) []image.Point {
	return lm[r.Start:r.End]
}

// LandmarkPredictor locates the facial landmarks inside a detected face region.
type LandmarkPredictor interface {
	Landmarks(gray *image.Gray, face image.Rectangle) (LandmarkSet, error)
}
