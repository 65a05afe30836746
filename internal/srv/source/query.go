package source

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// LatestQuery selects the most recent point of each field for one sensor
// over a trailing window.
type LatestQuery struct {
	Bucket      string
	Measurement string
	SensorTag   string
	SensorID    string
	Fields      []string
	Window      time.Duration
}

var (
	ErrEmptyBucket      = errors.New("bucket is empty")
	ErrEmptyMeasurement = errors.New("measurement is empty")
	ErrEmptySensorTag   = errors.New("sensor tag is empty")
	ErrEmptySensorID    = errors.New("sensor id is empty")
	ErrNoFields         = errors.New("no field requested")
	ErrInvalidWindow    = errors.New("window must be positive")
)

func (q LatestQuery) validate() error {
	switch {
	case q.Bucket == "":
		return ErrEmptyBucket
	case q.Measurement == "":
		return ErrEmptyMeasurement
	case q.SensorTag == "":
		return ErrEmptySensorTag
	case q.SensorID == "":
		return ErrEmptySensorID
	case len(q.Fields) == 0:
		return ErrNoFields
	case q.Window <= 0:
		return ErrInvalidWindow
	}
	for _, field := range q.Fields {
		if field == "" {
			return errors.Wrap(ErrNoFields, "empty field name")
		}
	}
	return nil
}

// Flux renders the query. Every user supplied value goes through a string
// literal, never through the query text itself.
func (q LatestQuery) Flux() (string, error) {
	if err := q.validate(); err != nil {
		return "", err
	}

	fieldFilters := make([]string, len(q.Fields))
	for i, field := range q.Fields {
		fieldFilters[i] = fmt.Sprintf(`r["_field"] == %s`, quote(field))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "from(bucket: %s)\n", quote(q.Bucket))
	fmt.Fprintf(&b, "  |> range(start: %s)\n", fluxWindow(q.Window))
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r[\"_measurement\"] == %s)\n", quote(q.Measurement))
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r[%s] == %s)\n", quote(q.SensorTag), quote(q.SensorID))
	fmt.Fprintf(&b, "  |> filter(fn: (r) => %s)\n", strings.Join(fieldFilters, " or "))
	b.WriteString("  |> last()\n")
	return b.String(), nil
}

var fluxEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "${", `\${`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func quote(s string) string {
	return `"` + fluxEscaper.Replace(s) + `"`
}

// fluxWindow turns a trailing window into a relative range start, rounded up
// to whole seconds.
func fluxWindow(window time.Duration) string {
	seconds := int64((window + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return fmt.Sprintf("-%ds", seconds)
}
