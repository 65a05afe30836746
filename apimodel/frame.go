package apimodel

import "time"

// Frame is the last content sent to the display.
type Frame struct {
	Lines      []string  `json:"lines"`
	RenderedAt time.Time `json:"rendered_at"`
}
