package drowsy

import "image"

// Pipeline turns a camera frame into the pair of normalized eye crops.
type Pipeline struct {
	Detector  FaceDetector
	Predictor LandmarkPredictor
	// MinFaceSize defaults to EyeFaceMinSize.
	MinFaceSize int
}

// NewPipeline creates a frame to eyes pipeline.
func NewPipeline(d FaceDetector, p LandmarkPredictor) *Pipeline {
	return &Pipeline{
		Detector:    d,
		Predictor:   p,
		MinFaceSize: EyeFaceMinSize,
	}
}

// Eyes locates the face on the frame, predicts its landmarks and crops the two eyes.
// It returns false if no face is found or if the eyes can't be extracted.
func (p *Pipeline) Eyes(frame image.Image) (left, right *EyeCrop, ok bool) {
	gray := Grayscale(frame)

	minSize := p.MinFaceSize
	if minSize <= 0 {
		minSize = EyeFaceMinSize
	}
	face, ok := LocateFace(p.Detector, gray, minSize)
	if !ok || face.Empty() {
		return nil, nil, false
	}
	lm, err := p.Predictor.Landmarks(gray, face)
	if err != nil {
		return nil, nil, false
	}
	return ExtractEyes(gray, lm)
}
