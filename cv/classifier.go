package cv

import (
	"errors"
	"fmt"
	"image"

	"github.com/esimov/drowsy"
	"github.com/esimov/drowsy/utils"
	"gocv.io/x/gocv"
)

var _ drowsy.Classifier = (*NetClassifier)(nil)

// ErrEmptyModelOutput is returned when the network produced no prediction.
var ErrEmptyModelOutput = errors.New("empty model output")

// NetClassifier scores the eye openness with a trained network loaded
// through the OpenCV dnn module (ONNX, TensorFlow or Caffe export).
type NetClassifier struct {
	net gocv.Net
}

// NewNetClassifier loads the trained model.
func NewNetClassifier(model string) (*NetClassifier, error) {
	if err := utils.CheckAsset(model); err != nil {
		return nil, err
	}
	net := gocv.ReadNet(model, "")
	if net.Empty() {
		return nil, fmt.Errorf("unable to load the model %q", model)
	}
	return &NetClassifier{net: net}, nil
}

// Score implements the drowsy.Classifier interface. The pixel values are
// scaled into the 0-1 range and fed as a single channel 26x34 tensor.
func (c *NetClassifier) Score(eye *image.Gray) (float64, error) {
	mat, err := gocv.ImageGrayToMatGray(eye)
	if err != nil {
		return 0, err
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(drowsy.EyeWidth, drowsy.EyeHeight),
		gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	c.net.SetInput(blob, "")
	out := c.net.Forward("")
	defer out.Close()

	if out.Empty() || out.Total() == 0 {
		return 0, ErrEmptyModelOutput
	}
	return float64(out.GetFloatAt(0, 0)), nil
}

// Close releases the network.
func (c *NetClassifier) Close() error {
	return c.net.Close()
}
