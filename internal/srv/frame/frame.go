// Package frame builds the text lines shown on the display during one
// refresh cycle. Everything here is pure: the same inputs always give the
// same frame.
package frame

import (
	"fmt"
	"strings"
	"time"

	"github.com/jypelle/oledstat/internal/srv/source"
)

const TimestampLayout = "06-01-02 15:04"

type Block []string

type DisplayFrame struct {
	Lines []string `json:"lines"`
}

// Field describes how one signal is printed on the value line.
type Field struct {
	Name     string
	Label    string
	Unit     string
	Decimals int
}

// Compose concatenates blocks and keeps at most maxLines lines.
func Compose(maxLines int, blocks ...Block) DisplayFrame {
	lines := []string{}
	for _, block := range blocks {
		for _, line := range block {
			if len(lines) >= maxLines {
				return DisplayFrame{Lines: lines}
			}
			lines = append(lines, line)
		}
	}
	return DisplayFrame{Lines: lines}
}

// SensorBlock renders a timestamp/identity line followed by a value line.
// It falls back to NoDataBlock as soon as one field has no value.
func SensorBlock(sensorID string, fields []Field, readings map[string]source.Reading, loc *time.Location) Block {
	if len(fields) == 0 {
		return NoDataBlock(sensorID)
	}

	var latest time.Time
	values := make([]string, 0, len(fields))
	for _, field := range fields {
		reading, ok := readings[field.Name]
		if !ok || !reading.Present() {
			return NoDataBlock(sensorID)
		}
		if reading.SampledAt != nil && reading.SampledAt.After(latest) {
			latest = *reading.SampledAt
		}
		values = append(values, fmt.Sprintf("%s: %.*f%s", field.label(), field.Decimals, *reading.Value, field.Unit))
	}

	if loc == nil {
		loc = time.Local
	}
	header := sensorID
	if !latest.IsZero() {
		header = latest.In(loc).Format(TimestampLayout) + " " + sensorID
	}
	return Block{header, strings.Join(values, "  ")}
}

func NoDataBlock(sensorID string) Block {
	return Block{sensorID + " - No data", ""}
}

func ErrorBlock(sensorID string) Block {
	return Block{sensorID + " - Error", ""}
}

func HostBlock(identity source.HostIdentity) Block {
	return Block{identity.Hostname, "IP: " + identity.Address}
}

func TextBlock(lines []string) Block {
	block := make(Block, len(lines))
	copy(block, lines)
	return block
}

func (f Field) label() string {
	if f.Label == "" {
		return f.Name
	}
	return f.Label
}
