package source

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	rows    []Row
	err     error
	queries []string
}

func (f *fakeStore) Query(ctx context.Context, query string) ([]Row, error) {
	f.queries = append(f.queries, query)
	return f.rows, f.err
}

func TestFetchReturnsLatestValues(t *testing.T) {
	older := time.Date(2024, 1, 1, 9, 55, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{rows: []Row{
		{Field: "temperature", Value: 20.0, Time: older, Tags: map[string]string{"sensor_id": "ext1"}},
		{Field: "temperature", Value: 21.3, Time: newer, Tags: map[string]string{"sensor_id": "ext1"}},
		{Field: "humidity", Value: int64(55), Time: newer, Tags: map[string]string{"sensor_id": "ext1"}},
		{Field: "pressure", Value: 1013.0, Time: newer, Tags: map[string]string{"sensor_id": "ext1"}},
		{Field: "humidity", Value: 99.0, Time: newer.Add(time.Minute), Tags: map[string]string{"sensor_id": "ext2"}},
	}}
	adapter := NewAdapter(store, "sensors", "climate", "sensor_id")

	readings, err := adapter.Fetch(context.Background(), []string{"temperature", "humidity"}, "ext1", 10*time.Minute)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(store.queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(store.queries))
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}
	temp := readings["temperature"]
	if !temp.Present() || *temp.Value != 21.3 || !temp.SampledAt.Equal(newer) {
		t.Fatalf("unexpected temperature reading: %+v", temp)
	}
	hum := readings["humidity"]
	if !hum.Present() || *hum.Value != 55 {
		t.Fatalf("unexpected humidity reading: %+v", hum)
	}
	if hum.SensorID != "ext1" || hum.Signal != "humidity" {
		t.Fatalf("unexpected humidity identity: %+v", hum)
	}
}

func TestFetchNoRowsIsAbsentNotError(t *testing.T) {
	adapter := NewAdapter(&fakeStore{}, "sensors", "climate", "sensor_id")

	readings, err := adapter.Fetch(context.Background(), []string{"temperature", "humidity"}, "ext1", time.Minute)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	for _, signal := range []string{"temperature", "humidity"} {
		r, ok := readings[signal]
		if !ok {
			t.Fatalf("missing entry for %s", signal)
		}
		if r.Present() || r.SampledAt != nil {
			t.Fatalf("expected absent reading for %s, got %+v", signal, r)
		}
	}
}

func TestFetchWrapsStoreFailure(t *testing.T) {
	cause := errors.New("connection refused")
	adapter := NewAdapter(&fakeStore{err: cause}, "sensors", "climate", "sensor_id")

	_, err := adapter.Fetch(context.Background(), []string{"temperature"}, "ext1", time.Minute)
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QueryError, got %v", err)
	}
	if qe.SensorID != "ext1" || !errors.Is(err, cause) {
		t.Fatalf("unexpected query error: %v", qe)
	}
}

func TestFetchRejectsUnexpectedValue(t *testing.T) {
	store := &fakeStore{rows: []Row{{Field: "temperature", Value: "warm", Time: time.Now()}}}
	adapter := NewAdapter(store, "sensors", "climate", "sensor_id")

	_, err := adapter.Fetch(context.Background(), []string{"temperature"}, "ext1", time.Minute)
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QueryError, got %v", err)
	}
}

func TestFetchMalformedQueryDoesNotHitStore(t *testing.T) {
	store := &fakeStore{}
	adapter := NewAdapter(store, "", "climate", "sensor_id")

	_, err := adapter.Fetch(context.Background(), []string{"temperature"}, "ext1", time.Minute)
	var qe *QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("expected QueryError, got %v", err)
	}
	if len(store.queries) != 0 {
		t.Fatalf("store should not be queried, got %d queries", len(store.queries))
	}
}
