package srv

import (
	"context"
	"time"

	"github.com/jypelle/oledstat/internal/srv/config"
	"github.com/jypelle/oledstat/internal/srv/device"
	"github.com/jypelle/oledstat/internal/srv/frame"
	"github.com/jypelle/oledstat/internal/srv/source"
	"github.com/sirupsen/logrus"
)

// Fetcher is implemented by *source.Adapter.
type Fetcher interface {
	Fetch(ctx context.Context, signals []string, sensorID string, window time.Duration) (map[string]source.Reading, error)
}

// A panel contributes one block of lines to every frame.
type panel interface {
	block(ctx context.Context) frame.Block
}

type sensorPanel struct {
	sensorId string
	fields   []frame.Field
	signals  []string

	fetcher  Fetcher
	window   time.Duration
	timeout  time.Duration
	location *time.Location
	metrics  *device.Metrics
}

func (p *sensorPanel) block(ctx context.Context) frame.Block {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	readings, err := p.fetcher.Fetch(ctx, p.signals, p.sensorId, p.window)
	if err != nil {
		logrus.Warnf("Unable to fetch sensor %s: %v", p.sensorId, err)
		p.metrics.FetchFailed(p.sensorId)
		return frame.ErrorBlock(p.sensorId)
	}

	for _, signal := range p.signals {
		p.metrics.ObserveReading(readings[signal])
	}
	return frame.SensorBlock(p.sensorId, p.fields, readings, p.location)
}

type hostPanel struct {
	iface  string
	lookup func(ifaceName string) (source.HostIdentity, error)
}

func (p *hostPanel) block(ctx context.Context) frame.Block {
	identity, err := p.lookup(p.iface)
	if err != nil {
		logrus.Warnf("Unable to read host identity: %v", err)
		if identity.Hostname == "" {
			return frame.ErrorBlock("Host")
		}
		identity.Address = "-"
	}
	return frame.HostBlock(identity)
}

type filePanel struct {
	path  string
	lines int
}

func (p *filePanel) block(ctx context.Context) frame.Block {
	return frame.TextBlock(source.ReadLines(p.path, p.lines))
}

func newPanels(sc *config.ServerConfig, fetcher Fetcher, metrics *device.Metrics) []panel {
	panels := make([]panel, 0, len(sc.Panels))
	for _, param := range sc.Panels {
		switch param.Type {
		case config.SensorPanel:
			fieldParams := param.Fields
			if len(fieldParams) == 0 {
				fieldParams = config.DefaultFields()
			}
			p := &sensorPanel{
				sensorId: param.SensorId,
				fetcher:  fetcher,
				window:   sc.InfluxParam.Window,
				timeout:  sc.InfluxParam.Timeout,
				location: sc.Location,
				metrics:  metrics,
			}
			for _, f := range fieldParams {
				p.fields = append(p.fields, frame.Field{Name: f.Name, Label: f.Label, Unit: f.Unit, Decimals: f.Decimals()})
				p.signals = append(p.signals, f.Name)
			}
			panels = append(panels, p)
		case config.HostPanel:
			panels = append(panels, &hostPanel{iface: param.Interface, lookup: source.LocalIdentity})
		case config.FilePanel:
			lines := param.Lines
			if lines <= 0 {
				lines = 2
			}
			panels = append(panels, &filePanel{path: param.Path, lines: lines})
		}
	}
	return panels
}
