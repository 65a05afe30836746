package source

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Store is the telemetry store client used by the Adapter.
type Store interface {
	Query(ctx context.Context, query string) ([]Row, error)
}

// Adapter turns "latest reading of these signals for this sensor" requests
// into store queries.
type Adapter struct {
	store       Store
	bucket      string
	measurement string
	sensorTag   string
}

func NewAdapter(store Store, bucket, measurement, sensorTag string) *Adapter {
	return &Adapter{
		store:       store,
		bucket:      bucket,
		measurement: measurement,
		sensorTag:   sensorTag,
	}
}

// Fetch returns one Reading per requested signal. Signals without a matching
// point get an absent Reading. Any failure is returned as a *QueryError.
func (a *Adapter) Fetch(ctx context.Context, signals []string, sensorID string, window time.Duration) (map[string]Reading, error) {
	q := LatestQuery{
		Bucket:      a.bucket,
		Measurement: a.measurement,
		SensorTag:   a.sensorTag,
		SensorID:    sensorID,
		Fields:      signals,
		Window:      window,
	}
	flux, err := q.Flux()
	if err != nil {
		return nil, &QueryError{SensorID: sensorID, Err: errors.Wrap(err, "malformed query")}
	}

	logrus.Debugf("Query sensor %s: %s", sensorID, flux)
	rows, err := a.store.Query(ctx, flux)
	if err != nil {
		return nil, &QueryError{SensorID: sensorID, Err: err}
	}

	readings := make(map[string]Reading, len(signals))
	for _, signal := range signals {
		readings[signal] = Reading{Signal: signal, SensorID: sensorID}
	}

	for _, row := range rows {
		current, requested := readings[row.Field]
		if !requested {
			continue
		}
		if tag, ok := row.Tags[a.sensorTag]; ok && tag != sensorID {
			continue
		}
		value, err := numericValue(row.Value)
		if err != nil {
			return nil, &QueryError{SensorID: sensorID, Err: errors.Wrapf(err, "field %s", row.Field)}
		}
		if current.SampledAt != nil && !row.Time.After(*current.SampledAt) {
			continue
		}
		sampledAt := row.Time
		readings[row.Field] = Reading{
			Signal:    row.Field,
			Value:     &value,
			SampledAt: &sampledAt,
			SensorID:  sensorID,
		}
	}

	return readings, nil
}

func numericValue(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, errors.Errorf("unexpected value type %T", v)
	}
}
