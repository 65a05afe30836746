package source

import "time"

// Reading is the latest sample of one signal for one sensor.
// A nil Value means the store had no matching point in the window.
type Reading struct {
	Signal    string
	Value     *float64
	SampledAt *time.Time
	SensorID  string
}

func (r Reading) Present() bool {
	return r.Value != nil
}

// Row is a single point returned by the telemetry store.
type Row struct {
	Field string
	Value interface{}
	Time  time.Time
	Tags  map[string]string
}
