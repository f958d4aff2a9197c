package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestParseOutlineColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.NRGBA
		wantErr bool
	}{
		{"#ff0000", color.NRGBA{255, 0, 0, 255}, false},
		{"00ff00", color.NRGBA{0, 255, 0, 255}, false},
		{"#00f", color.NRGBA{0, 0, 255, 255}, false},
		{"Red", color.NRGBA{255, 0, 0, 255}, false},
		{" yellow ", color.NRGBA{255, 255, 0, 255}, false},
		{"", color.NRGBA{}, true},
		{"#gggggg", color.NRGBA{}, true},
		{"chartreuse-ish", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutlineColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseOutlineColor(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOutlineColor(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnnotate(t *testing.T) {
	src := newSolidImage(100, 100, color.White)
	box := PixelBox{X0: 10, Y0: 20, X1: 60, Y1: 70}

	out := Annotate(src, []PixelBox{box}, DefaultOutlineStyle())

	red := color.NRGBA{255, 0, 0, 255}
	white := color.NRGBA{255, 255, 255, 255}

	checks := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"top edge", 30, 20, red},
		{"top edge inner stroke", 30, 22, red},
		{"inside stroke", 30, 23, white},
		{"bottom edge", 30, 69, red},
		{"left edge", 10, 40, red},
		{"right edge", 59, 40, red},
		{"just outside right", 60, 40, white},
		{"center", 35, 45, white},
		{"outside", 5, 5, white},
	}
	for _, c := range checks {
		if got := out.NRGBAAt(c.x, c.y); got != c.want {
			t.Errorf("%s (%d,%d): got %v, want %v", c.name, c.x, c.y, got, c.want)
		}
	}

	if got := src.NRGBAAt(10, 20); got != white {
		t.Error("Annotate modified the source image")
	}
}

func TestAnnotate_ClipsAndSkips(t *testing.T) {
	src := newSolidImage(20, 20, color.Black)
	style := OutlineStyle{Color: color.NRGBA{0, 0, 255, 255}, Width: 0}

	boxes := []PixelBox{
		{X0: -5, Y0: -5, X1: 10, Y1: 10},     // partially outside
		{X0: 100, Y0: 100, X1: 120, Y1: 120}, // entirely outside
		{X0: 5, Y0: 5, X1: 5, Y1: 15},        // empty
	}
	out := Annotate(src, boxes, style)

	if out.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds changed: %v", out.Bounds())
	}
	blue := color.NRGBA{0, 0, 255, 255}
	if got := out.NRGBAAt(9, 3); got != blue {
		t.Errorf("clipped right edge: got %v, want blue", got)
	}
	if got := out.NRGBAAt(3, 9); got != blue {
		t.Errorf("clipped bottom edge: got %v, want blue", got)
	}
	if got := out.NRGBAAt(5, 10); got == blue {
		t.Error("empty box should draw nothing")
	}
}

func TestAnnotate_NoBoxes(t *testing.T) {
	src := newSolidImage(8, 8, color.White)
	out := Annotate(src, nil, DefaultOutlineStyle())
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if out.NRGBAAt(x, y) != (color.NRGBA{255, 255, 255, 255}) {
				t.Fatalf("pixel (%d,%d) changed", x, y)
			}
		}
	}
}
