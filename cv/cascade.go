package cv

import (
	"fmt"
	"image"

	"github.com/esimov/drowsy"
	"github.com/esimov/drowsy/utils"
	"gocv.io/x/gocv"
)

var _ drowsy.FaceDetector = (*CascadeDetector)(nil)

// CascadeDetector detects faces with an OpenCV Haar cascade classifier.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
	// ScaleFactor and MinNeighbors are passed to the multi-scale detection.
	ScaleFactor  float64
	MinNeighbors int
}

// NewCascadeDetector loads the cascade classifier from an xml file.
func NewCascadeDetector(path string) (*CascadeDetector, error) {
	if err := utils.CheckAsset(path); err != nil {
		return nil, err
	}
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("there was a problem loading the cascade file %q", path)
	}
	return &CascadeDetector{
		classifier:   classifier,
		ScaleFactor:  1.3,
		MinNeighbors: 1,
	}, nil
}

// DetectFaces implements the drowsy.FaceDetector interface.
func (d *CascadeDetector) DetectFaces(gray *image.Gray, minSize int) []image.Rectangle {
	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil
	}
	defer mat.Close()

	return d.classifier.DetectMultiScaleWithParams(mat, d.ScaleFactor, d.MinNeighbors, 0,
		image.Pt(minSize, minSize), image.Pt(0, 0))
}

// Close releases the classifier.
func (d *CascadeDetector) Close() error {
	return d.classifier.Close()
}
