package device

import (
	"image"
	"image/draw"

	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

var uniformImage = image.NewUniform(image1bit.On)

// AddLabel draws label with its baseline at y.
func AddLabel(img draw.Image, x, y int, label string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  uniformImage,
		Face: bitmapfont.Face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}

func LabelWidth(label string) int {
	return font.MeasureString(bitmapfont.Face, label).Ceil()
}

func LabelAscent() int {
	return bitmapfont.Face.Metrics().Ascent.Ceil()
}

// CenteredX returns the x offset centering label on a surface of the given width.
func CenteredX(width int, label string) int {
	x := (width - LabelWidth(label)) / 2
	if x < 0 {
		return 0
	}
	return x
}
