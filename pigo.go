package drowsy

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/esimov/drowsy/utils"
	pigo "github.com/esimov/pigo/core"
)

// ErrNoPupil is returned when the pupils can't be localized inside the face region.
var ErrNoPupil = errors.New("pupils not found")

// PigoDetector is a face detector backed by the pigo pixel intensity comparison cascade.
type PigoDetector struct {
	classifier *pigo.Pigo
	// Angle of the plane rotated faces, in the 0.0-1.0 range.
	Angle float64
	// IoUThreshold is used for clustering the overlapping detections.
	IoUThreshold float64
	// MinQuality discards the detections with a lower score.
	MinQuality float32
}

// NewPigoDetector unpacks the facefinder cascade file.
func NewPigoDetector(cascade []byte) (*PigoDetector, error) {
	p := pigo.NewPigo()

	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	classifier, err := p.Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the cascade file: %w", err)
	}
	return &PigoDetector{
		classifier:   classifier,
		IoUThreshold: 0.2,
		MinQuality:   5.0,
	}, nil
}

// DetectFaces implements the FaceDetector interface.
// The faces are returned in the order produced by the cascade clustering.
func (d *PigoDetector) DetectFaces(gray *image.Gray, minSize int) []image.Rectangle {
	params := imageParams(gray)
	cp := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     utils.Min(params.Rows, params.Cols),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: params,
	}
	if cp.MaxSize < cp.MinSize {
		return nil
	}

	dets := d.classifier.RunCascade(cp, d.Angle)
	dets = d.classifier.ClusterDetections(dets, d.IoUThreshold)

	faces := make([]image.Rectangle, 0, len(dets))
	for _, det := range dets {
		if det.Q <= d.MinQuality {
			continue
		}
		half := det.Scale / 2
		faces = append(faces, image.Rect(
			det.Col-half, det.Row-half,
			det.Col+half, det.Row+half,
		))
	}
	return faces
}

// Proportions of the eye outline relative to the pupil distance.
const (
	eyeSpan    = 0.45
	eyeOpening = 0.3
)

// PupilPredictor fills the eye outlines of the 68 point landmark layout from
// the pupil positions found by the pigo pupil localization cascade. The other
// landmarks hold the face center, since they are of no use for eye extraction.
type PupilPredictor struct {
	puploc *pigo.PuplocCascade
	// Perturbs is the number of perturbations applied on the pupil localization.
	Perturbs int
}

// NewPupilPredictor unpacks the puploc cascade file.
func NewPupilPredictor(cascade []byte) (*PupilPredictor, error) {
	pl := pigo.NewPuplocCascade()
	plc, err := pl.UnpackCascade(cascade)
	if err != nil {
		return nil, fmt.Errorf("error unpacking the puploc cascade file: %w", err)
	}
	return &PupilPredictor{
		puploc:   plc,
		Perturbs: 63,
	}, nil
}

// Landmarks implements the LandmarkPredictor interface.
func (p *PupilPredictor) Landmarks(gray *image.Gray, face image.Rectangle) (LandmarkSet, error) {
	var lm LandmarkSet

	params := imageParams(gray)
	scale := float32(face.Dx())
	center := image.Pt((face.Min.X+face.Max.X)/2, (face.Min.Y+face.Max.Y)/2)

	locate := func(dir int) (*pigo.Puploc, error) {
		pl := pigo.Puploc{
			Row:      center.Y - int(0.075*scale),
			Col:      center.X + dir*int(0.175*scale),
			Scale:    scale * 0.25,
			Perturbs: p.Perturbs,
		}
		eye := p.puploc.RunDetector(pl, params, 0.0, false)
		if eye == nil || eye.Row <= 0 || eye.Col <= 0 {
			return nil, ErrNoPupil
		}
		return eye, nil
	}
	// The first eye is on the left side of the image.
	le, err := locate(-1)
	if err != nil {
		return lm, err
	}
	re, err := locate(1)
	if err != nil {
		return lm, err
	}

	for i := range lm {
		lm[i] = center
	}
	dist := math.Hypot(float64(re.Col-le.Col), float64(re.Row-le.Row))
	bounds := gray.Bounds()
	copy(lm.Eye(RightEyeRange), eyeOutline(le, dist, bounds))
	copy(lm.Eye(LeftEyeRange), eyeOutline(re, dist, bounds))

	return lm, nil
}

// eyeOutline approximates the six points of an eye around the pupil:
// corner, two upper lid points, corner, two lower lid points.
func eyeOutline(pupil *pigo.Puploc, dist float64, bounds image.Rectangle) []image.Point {
	x, y := float64(pupil.Col), float64(pupil.Row)
	w := eyeSpan * dist
	h := eyeOpening * w

	pts := []image.Point{
		{X: int(math.Round(x - w/2)), Y: int(math.Round(y))},
		{X: int(math.Round(x - w/6)), Y: int(math.Round(y - h/2))},
		{X: int(math.Round(x + w/6)), Y: int(math.Round(y - h/2))},
		{X: int(math.Round(x + w/2)), Y: int(math.Round(y))},
		{X: int(math.Round(x + w/6)), Y: int(math.Round(y + h/2))},
		{X: int(math.Round(x - w/6)), Y: int(math.Round(y + h/2))},
	}
	for i, pt := range pts {
		pts[i] = image.Pt(
			utils.Clamp(pt.X, bounds.Min.X, bounds.Max.X-1),
			utils.Clamp(pt.Y, bounds.Min.Y, bounds.Max.Y-1),
		)
	}
	return pts
}

// imageParams wraps the grayscale pixels into the pigo image descriptor.
func imageParams(gray *image.Gray) pigo.ImageParams {
	gray = Grayscale(gray)
	cols, rows := gray.Bounds().Dx(), gray.Bounds().Dy()
	return pigo.ImageParams{
		Pixels: gray.Pix,
		Rows:   rows,
		Cols:   cols,
		Dim:    cols,
	}
}
