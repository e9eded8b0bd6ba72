package drowsy

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/drowsy/utils"
)

// The eye crop size expected by the openness classifier.
const (
	EyeWidth  = 34
	EyeHeight = 26
)

// Side tells which eye a crop was taken from.
type Side int

const (
	LeftEye Side = iota
	RightEye
)

func (s Side) String() string {
	if s == RightEye {
		return "right"
	}
	return "left"
}

// EyeCrop is a size normalized grayscale eye image.
type EyeCrop struct {
	Image *image.Gray
	Side  Side
}

// ExtractEyes crops both eyes out of the grayscale frame and normalizes them
// to EyeWidth x EyeHeight. The crop taken from the landmark range labeled as
// the right eye is returned as the left one and vice versa; the second crop
// is mirrored horizontally, so both eyes reach the classifier in the same orientation.
// If any of the two crops is degenerate, no eye is returned.
func ExtractEyes(gray *image.Gray, lm LandmarkSet) (left, right *EyeCrop, ok bool) {
	lr, ok := eyeRect(lm.Eye(RightEyeRange), gray.Bounds())
	if !ok {
		return nil, nil, false
	}
	rr, ok := eyeRect(lm.Eye(LeftEyeRange), gray.Bounds())
	if !ok {
		return nil, nil, false
	}

	leftImg := imaging.Resize(gray.SubImage(lr), EyeWidth, EyeHeight, imaging.Linear)
	rightImg := imaging.Resize(gray.SubImage(rr), EyeWidth, EyeHeight, imaging.Linear)
	rightImg = imaging.FlipH(rightImg)

	left = &EyeCrop{Image: nrgbaToGray(leftImg), Side: LeftEye}
	right = &EyeCrop{Image: nrgbaToGray(rightImg), Side: RightEye}

	return left, right, true
}

// eyeRect computes the crop rectangle around the six eye points, padding the
// eye box symmetrically towards the classifier input size. The returned
// rectangle is in the coordinate space of bounds.
func eyeRect(eye []image.Point, bounds image.Rectangle) (image.Rectangle, bool) {
	if len(eye) != 6 {
		return image.Rectangle{}, false
	}
	upperY := utils.Min(eye[1].Y, eye[2].Y)
	lowerY := utils.Max(eye[4].Y, eye[5].Y)
	h := float64(utils.Abs(upperY - lowerY))
	w := float64(eye[3].X - eye[0].X)

	padX := (EyeWidth - w) / 2
	padY := (EyeHeight - h) / 2

	minX := int(math.RoundToEven(float64(eye[0].X) - padX))
	maxX := int(math.RoundToEven(float64(eye[3].X) + padX))
	minY := int(math.RoundToEven(float64(upperY) - padY))
	maxY := int(math.RoundToEven(float64(lowerY) + padY))

	x0, x1, ok := sliceBounds(minX, maxX, bounds.Dx())
	if !ok {
		return image.Rectangle{}, false
	}
	y0, y1, ok := sliceBounds(minY, maxY, bounds.Dy())
	if !ok {
		return image.Rectangle{}, false
	}
	return image.Rect(x0, y0, x1, y1).Add(bounds.Min), true
}

// sliceBounds applies array slicing rules to the [start, end) interval over a
// dimension of size n: the end is truncated at n, while a start or end
// falling before the first pixel leaves nothing to slice.
func sliceBounds(start, end, n int) (int, int, bool) {
	if start < 0 || end < 0 {
		return 0, 0, false
	}
	if end > n {
		end = n
	}
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// nrgbaToGray keeps the luminance of an image which is already gray in its content.
func nrgbaToGray(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		di := dst.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[di+x] = src.Pix[si+x*4]
		}
	}
	return dst
}
