package config

import (
	_ "embed"
	"time"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

const (
	SensorPanel = "sensor"
	HostPanel   = "host"
	FilePanel   = "file"
)

type ServerParam struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	Timezone        string        `yaml:"timezone"`
	InfluxParam     InfluxParam   `yaml:"influxdb"`
	DisplayParam    DisplayParam  `yaml:"display"`
	Panels          []PanelParam  `yaml:"panels"`
	ApiParam        ApiParam      `yaml:"api"`
}

type InfluxParam struct {
	Url         string        `yaml:"url"`
	Token       string        `yaml:"token"`
	Org         string        `yaml:"org"`
	Bucket      string        `yaml:"bucket"`
	Measurement string        `yaml:"measurement"`
	SensorTag   string        `yaml:"sensor_tag"`
	Window      time.Duration `yaml:"window"`
	Timeout     time.Duration `yaml:"timeout"`
}

type DisplayParam struct {
	I2cBus     string `yaml:"i2c_bus"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Rotated    bool   `yaml:"rotated"`
	Contrast   uint8  `yaml:"contrast"`
	LineHeight int    `yaml:"line_height"`
	MaxLines   int    `yaml:"max_lines"`
}

type PanelParam struct {
	Type     string       `yaml:"type"`
	SensorId string       `yaml:"sensor_id,omitempty"`
	Fields   []FieldParam `yaml:"fields,omitempty"`
	// host panel
	Interface string `yaml:"interface,omitempty"`
	// file panel
	Path  string `yaml:"path,omitempty"`
	Lines int    `yaml:"lines,omitempty"`
}

type FieldParam struct {
	Name      string `yaml:"name"`
	Label     string `yaml:"label"`
	Unit      string `yaml:"unit"`
	Precision *int   `yaml:"precision,omitempty"`
}

func (f FieldParam) Decimals() int {
	if f.Precision == nil {
		return 1
	}
	return *f.Precision
}

type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	SslPort int64  `yaml:"ssl_port"`
	ApiKey  string `yaml:"api_key"`
}

// DefaultFields is used when a sensor panel or SENSOR_FIELDS names no field.
func DefaultFields() []FieldParam {
	return []FieldParam{
		{Name: "temperature", Label: "Temp", Unit: "°C"},
		{Name: "humidity", Label: "Hum", Unit: "%"},
	}
}
