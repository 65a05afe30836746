package device

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/jypelle/oledstat/internal/srv/config"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func litPixels(img image.Image) int {
	count := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.At(x, y) == image1bit.On {
				count++
			}
		}
	}
	return count
}

func TestSimulatedDisplayDrawsAndClears(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "frame.png")
	d := NewDisplay(config.DisplayParam{Width: 128, Height: 64}, true, snapshot)
	if err := d.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer d.Stop()

	if got := d.Bounds(); got != image.Rect(0, 0, 128, 64) {
		t.Fatalf("unexpected bounds %v", got)
	}

	d.DrawText(0, 0, "ext1 - No data")
	if litPixels(d.Image()) == 0 {
		t.Fatalf("expected lit pixels after DrawText")
	}
	if err := d.Present(); err != nil {
		t.Fatalf("Present error: %v", err)
	}
	if _, err := os.Stat(snapshot); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	if err := d.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n := litPixels(d.Image()); n != 0 {
		t.Fatalf("expected a blank buffer, got %d lit pixels", n)
	}
}

func TestCenteredX(t *testing.T) {
	if x := CenteredX(128, ""); x != 64 {
		t.Fatalf("CenteredX of an empty label = %d", x)
	}
	long := "a label much wider than the display itself"
	if x := CenteredX(128, long); x != 0 {
		t.Fatalf("CenteredX of a long label = %d", x)
	}
	if w := LabelWidth("abc"); w != 3*LabelWidth("a") {
		t.Fatalf("bitmap font should be fixed width, got %d", w)
	}
}
