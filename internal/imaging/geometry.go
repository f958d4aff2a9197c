package imaging

import (
	"image"
	"math"
)

// NormalizedBox is a bounding box expressed as fractions of image width and
// height, as returned by text-detection services.
//
// Values are expected in [0,1] with Left+Width <= 1 and Top+Height <= 1, but
// they are not checked: whatever the service sends is passed through.
type NormalizedBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PixelBox is a bounding box in absolute pixel coordinates.
// (X0,Y0) is the top-left corner and (X1,Y1) the bottom-right corner.
type PixelBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// ToPixelBox maps a normalized box onto an image of the given size.
//
//	x0 = left*width      y0 = top*height
//	x1 = x0 + w*width    y1 = y0 + h*height
//
// The mapping is linear and exact. NaN and negative inputs are not sanitized.
func ToPixelBox(box NormalizedBox, width, height int) PixelBox {
	w := float64(width)
	h := float64(height)
	x0 := box.Left * w
	y0 := box.Top * h
	return PixelBox{
		X0: x0,
		Y0: y0,
		X1: x0 + box.Width*w,
		Y1: y0 + box.Height*h,
	}
}

// Rect rounds the box to the nearest integer pixel rectangle. The result is
// canonicalized so Min <= Max; it is not clipped to any image bounds.
func (b PixelBox) Rect() image.Rectangle {
	return image.Rect(
		int(math.Round(b.X0)),
		int(math.Round(b.Y0)),
		int(math.Round(b.X1)),
		int(math.Round(b.Y1)),
	)
}

// NormalizeRect converts a pixel rectangle on an image of the given size back into
// fractions. Providers that report pixel boxes (Tesseract) use this so every
// Detection carries the same box form.
func NormalizeRect(r image.Rectangle, width, height int) NormalizedBox {
	if width <= 0 || height <= 0 {
		return NormalizedBox{}
	}
	w := float64(width)
	h := float64(height)
	return NormalizedBox{
		Left:   float64(r.Min.X) / w,
		Top:    float64(r.Min.Y) / h,
		Width:  float64(r.Dx()) / w,
		Height: float64(r.Dy()) / h,
	}
}
