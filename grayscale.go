package drowsy

import (
	"image"
	"image/color"
)

// Grayscale converts the frame to a single channel image with min-point at (0, 0),
// using the ITU-R 601 luma weights.
func Grayscale(src image.Image) *image.Gray {
	b := src.Bounds()
	if g, ok := src.(*image.Gray); ok && b.Min == (image.Point{}) && g.Stride == b.Dx() {
		return g
	}
	dx, dy := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, dx, dy))

	switch src := src.(type) {
	case *image.RGBA:
		for y := 0; y < dy; y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := dst.PixOffset(0, y)
			for x := 0; x < dx; x++ {
				p := src.Pix[si : si+3 : si+3]
				dst.Pix[di+x] = luma(p[0], p[1], p[2])
				si += 4
			}
		}
	case *image.NRGBA:
		for y := 0; y < dy; y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := dst.PixOffset(0, y)
			for x := 0; x < dx; x++ {
				p := src.Pix[si : si+3 : si+3]
				dst.Pix[di+x] = luma(p[0], p[1], p[2])
				si += 4
			}
		}
	default:
		for y := 0; y < dy; y++ {
			di := dst.PixOffset(0, y)
			for x := 0; x < dx; x++ {
				c := color.RGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
				dst.Pix[di+x] = luma(c.R, c.G, c.B)
			}
		}
	}
	return dst
}

func luma(r, g, b uint8) uint8 {
	return uint8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b) + 0.5)
}
