package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides param with the environment variables that are set.
func ApplyEnv(param *ServerParam, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	texts := map[string]*string{
		"INFLUXDB_URL":         &param.InfluxParam.Url,
		"INFLUXDB_TOKEN":       &param.InfluxParam.Token,
		"INFLUXDB_ORG":         &param.InfluxParam.Org,
		"INFLUXDB_BUCKET":      &param.InfluxParam.Bucket,
		"INFLUXDB_MEASUREMENT": &param.InfluxParam.Measurement,
		"INFLUXDB_SENSOR_TAG":  &param.InfluxParam.SensorTag,
		"DISPLAY_TIMEZONE":     &param.Timezone,
	}
	for key, target := range texts {
		if value, ok := lookup(key); ok && value != "" {
			*target = value
		}
	}

	durations := map[string]*time.Duration{
		"REFRESH_INTERVAL": &param.RefreshInterval,
		"QUERY_WINDOW":     &param.InfluxParam.Window,
	}
	for key, target := range durations {
		value, ok := lookup(key)
		if !ok || value == "" {
			continue
		}
		d, err := parseDuration(value)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", key)
		}
		*target = d
	}

	var fields []FieldParam
	if value, ok := lookup("SENSOR_FIELDS"); ok && value != "" {
		for _, name := range splitList(value) {
			fields = append(fields, fieldFor(name))
		}
	}

	if value, ok := lookup("SENSOR_IDS"); ok && value != "" {
		if fields == nil {
			fields = DefaultFields()
		}
		panels := make([]PanelParam, 0, len(param.Panels))
		for _, sensorId := range splitList(value) {
			panels = append(panels, PanelParam{Type: SensorPanel, SensorId: sensorId, Fields: fields})
		}
		for _, panel := range param.Panels {
			if panel.Type != SensorPanel {
				panels = append(panels, panel)
			}
		}
		param.Panels = panels
	} else if fields != nil {
		for i := range param.Panels {
			if param.Panels[i].Type == SensorPanel {
				param.Panels[i].Fields = fields
			}
		}
	}

	return nil
}

// parseDuration accepts Go durations ("10s", "1m30s") and plain seconds.
func parseDuration(value string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// fieldFor reuses the label and unit of a default field with the same name.
func fieldFor(name string) FieldParam {
	for _, field := range DefaultFields() {
		if field.Name == name {
			return field
		}
	}
	return FieldParam{Name: name}
}
