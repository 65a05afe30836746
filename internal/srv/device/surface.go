package device

import "image"

// Surface is an off-screen monochrome buffer in front of a physical panel.
type Surface interface {
	Bounds() image.Rectangle
	// Erase blanks the off-screen buffer, the panel keeps its content.
	Erase()
	// DrawText draws text with its top left corner at (x, y).
	DrawText(x, y int, text string)
	// Present transmits the buffer to the panel.
	Present() error
	// Clear blanks both the buffer and the panel.
	Clear() error
}
