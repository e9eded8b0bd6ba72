package cv

import (
	"errors"
	"fmt"
	"image"

	"github.com/esimov/drowsy"
	"gocv.io/x/gocv"
)

var _ drowsy.FrameSource = (*Camera)(nil)

// Camera grabs the frames of a video capture device.
type Camera struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
}

// OpenCamera opens the video capture device with the given index.
func OpenCamera(device int) (*Camera, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open video capture %d: %w", device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("video capture %d is not opened", device)
	}
	return &Camera{
		capture: capture,
		frame:   gocv.NewMat(),
	}, nil
}

// Read grabs the next frame. It returns false if the device delivered no frame.
func (c *Camera) Read() (image.Image, bool) {
	if ok := c.capture.Read(&c.frame); !ok || c.frame.Empty() {
		return nil, false
	}
	img, err := c.frame.ToImage()
	if err != nil {
		return nil, false
	}
	return img, true
}

// Close releases the capture device.
func (c *Camera) Close() error {
	return errors.Join(c.frame.Close(), c.capture.Close())
}
