package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultOutlineColor and DefaultOutlineWidth match the boxes drawn around
// detected lines: red, three pixels wide.
const (
	DefaultOutlineColor = "#ff0000"
	DefaultOutlineWidth = 3
)

// namedColors covers the color names accepted besides hex notation.
var namedColors = map[string]string{
	"red":     "#ff0000",
	"green":   "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"magenta": "#ff00ff",
	"cyan":    "#00ffff",
	"black":   "#000000",
	"white":   "#ffffff",
}

// OutlineStyle controls how detection boxes are drawn.
type OutlineStyle struct {
	Color color.NRGBA
	Width int
}

// DefaultOutlineStyle returns the red, 3px style.
func DefaultOutlineStyle() OutlineStyle {
	return OutlineStyle{Color: color.NRGBA{R: 255, A: 255}, Width: DefaultOutlineWidth}
}

// ParseOutlineColor parses "#rgb", "#rrggbb" or a basic color name
// ("red", "blue", ...) into an opaque color.
func ParseOutlineColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid outline color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// Annotate draws an outline for every box on a copy of img.
//
// Parameters:
//   - img: The normalized source image. It is not modified.
//   - boxes: Pixel boxes to outline, typically from ToPixelBox.
//   - style: Outline color and stroke width. A width below 1 is treated as 1.
//
// Strokes are drawn inward from the box edges. Boxes that extend beyond the
// image are clipped; boxes entirely outside it draw nothing.
func Annotate(img image.Image, boxes []PixelBox, style OutlineStyle) *image.NRGBA {
	dst := imaging.Clone(img)
	stroke := style.Width
	if stroke < 1 {
		stroke = 1
	}
	for _, b := range boxes {
		drawRect(dst, b.Rect(), style.Color, stroke)
	}
	return dst
}

// drawRect strokes r on img. Clone returns an image anchored at (0,0), so box
// coordinates are used directly.
func drawRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA, stroke int) {
	if r.Empty() {
		return
	}
	for s := 0; s < stroke; s++ {
		if r.Min.Y+s >= r.Max.Y-s || r.Min.X+s >= r.Max.X-s {
			break
		}
		drawHLine(img, r.Min.Y+s, r.Min.X, r.Max.X, c)
		drawHLine(img, r.Max.Y-1-s, r.Min.X, r.Max.X, c)
		drawVLine(img, r.Min.X+s, r.Min.Y, r.Max.Y, c)
		drawVLine(img, r.Max.X-1-s, r.Min.Y, r.Max.Y, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	if x0 < b.Min.X {
		x0 = b.Min.X
	}
	if x1 > b.Max.X {
		x1 = b.Max.X
	}
	for x := x0; x < x1; x++ {
		img.SetNRGBA(x, y, c)
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	for y := y0; y < y1; y++ {
		img.SetNRGBA(x, y, c)
	}
}
