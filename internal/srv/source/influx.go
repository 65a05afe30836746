package source

import (
	"context"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/query"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// InfluxStore is a Store backed by an InfluxDB 2.x server.
type InfluxStore struct {
	client influxdb2.Client
	org    string
}

func NewInfluxStore(url, token, org string, timeout time.Duration) *InfluxStore {
	options := influxdb2.DefaultOptions()
	if timeout > 0 {
		seconds := uint((timeout + time.Second - 1) / time.Second)
		options.SetHTTPRequestTimeout(seconds)
	}
	return &InfluxStore{
		client: influxdb2.NewClientWithOptions(url, token, options),
		org:    org,
	}
}

// Ping checks that the server answers its health endpoint.
func (s *InfluxStore) Ping(ctx context.Context) error {
	health, err := s.client.Health(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to reach influxdb")
	}
	if health.Status != "pass" {
		message := ""
		if health.Message != nil {
			message = *health.Message
		}
		return errors.Errorf("influxdb health check failed: %s %s", health.Status, message)
	}
	return nil
}

func (s *InfluxStore) Query(ctx context.Context, flux string) ([]Row, error) {
	result, err := s.client.QueryAPI(s.org).Query(ctx, flux)
	if err != nil {
		return nil, errors.Wrap(err, "influxdb query")
	}
	defer result.Close()

	var rows []Row
	for result.Next() {
		rows = append(rows, rowFromRecord(result.Record()))
	}
	if result.Err() != nil {
		return nil, errors.Wrap(result.Err(), "influxdb result")
	}

	logrus.Debugf("Influxdb returned %d rows", len(rows))
	return rows, nil
}

func (s *InfluxStore) Close() {
	s.client.Close()
}

func rowFromRecord(record *query.FluxRecord) Row {
	row := Row{
		Field: record.Field(),
		Value: record.Value(),
		Time:  record.Time(),
		Tags:  make(map[string]string),
	}
	for key, value := range record.Values() {
		if strings.HasPrefix(key, "_") || key == "result" || key == "table" {
			continue
		}
		if tag, ok := value.(string); ok {
			row.Tags[key] = tag
		}
	}
	return row
}
