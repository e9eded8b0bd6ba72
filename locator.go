package drowsy

import "image"

// Minimum face sizes passed to the face detector.
const (
	// EyeFaceMinSize is used when a face is searched for eye extraction.
	EyeFaceMinSize = 80
	// DefaultFaceMinSize is used for generic face detection.
	DefaultFaceMinSize = 20
)

// FaceDetector finds the faces present on a grayscale frame.
// The returned rectangles are in frame pixel coordinates.
type FaceDetector interface {
	DetectFaces(gray *image.Gray, minSize int) []image.Rectangle
}

// LocateFace returns one face of the frame. When more faces are detected the
// first one is kept, in the order reported by the detector; the faces are
// not ranked by size or by detection score.
func LocateFace(d FaceDetector, gray *image.Gray, minSize int) (image.Rectangle, bool) {
	faces := d.DetectFaces(gray, minSize)
	if len(faces) == 0 {
		return image.Rectangle{}, false
	}
	return faces[0], true
}
