package srv

import (
	"context"
	"time"

	"github.com/jypelle/oledstat/internal/srv/config"
	"github.com/jypelle/oledstat/internal/srv/device"
	"github.com/jypelle/oledstat/internal/srv/source"
	"github.com/jypelle/oledstat/internal/version"
	"github.com/sirupsen/logrus"
)

type ServerApp struct {
	*config.ServerConfig

	surface       device.Surface
	displayDevice *device.Display
	influxStore   *source.InfluxStore
	apiDevice     *device.Api
	metrics       *device.Metrics

	panels []panel
}

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of oledstat server %s ...", version.AppVersion.String())

	serverConfig := config.NewServerConfig(configDir, debugMode, simulationMode)

	displayDevice := device.NewDisplay(serverConfig.DisplayParam, simulationMode, serverConfig.GetCompleteSnapshotFilename())
	influxStore := source.NewInfluxStore(
		serverConfig.InfluxParam.Url,
		serverConfig.InfluxParam.Token,
		serverConfig.InfluxParam.Org,
		serverConfig.InfluxParam.Timeout,
	)
	adapter := source.NewAdapter(
		influxStore,
		serverConfig.InfluxParam.Bucket,
		serverConfig.InfluxParam.Measurement,
		serverConfig.InfluxParam.SensorTag,
	)

	app := newServerApp(serverConfig, displayDevice, adapter, device.NewMetrics())
	app.displayDevice = displayDevice
	app.influxStore = influxStore
	if serverConfig.ApiParam.Enabled {
		app.apiDevice = device.NewApi(serverConfig, app.metrics)
	}

	logrus.Debugln("Server created")

	return app
}

func newServerApp(serverConfig *config.ServerConfig, surface device.Surface, fetcher Fetcher, metrics *device.Metrics) *ServerApp {
	return &ServerApp{
		ServerConfig: serverConfig,
		surface:      surface,
		metrics:      metrics,
		panels:       newPanels(serverConfig, fetcher, metrics),
	}
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting oledstat server ...")

	// Start display device, nothing works without it
	if err := s.displayDevice.Start(); err != nil {
		logrus.Fatalf("Unable to start display: %v\n", err)
	}

	// Display startup screen
	s.showSplash()

	// A store that is down is reported on screen by the loop
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := s.influxStore.Ping(ctx); err != nil {
		logrus.Warnf("Influxdb not ready: %v", err)
	}
	cancel()

	// Start api device
	if s.apiDevice != nil {
		if err := s.apiDevice.Start(); err != nil {
			logrus.Fatalf("Unable to start api: %v\n", err)
		}
	}
}

func (s *ServerApp) Stop() {
	logrus.Printf("Stopping oledstat server ...")

	if s.apiDevice != nil {
		s.apiDevice.Stop()
	}
	s.influxStore.Close()
	s.displayDevice.Stop()

	logrus.Printf("Server stopped")
}

func (s *ServerApp) showSplash() {
	label := "oledstat " + version.AppVersion.String()
	bounds := s.surface.Bounds()

	s.surface.Erase()
	s.surface.DrawText(device.CenteredX(bounds.Dx(), label), (bounds.Dy()-s.DisplayParam.LineHeight)/2, label)
	if err := s.surface.Present(); err != nil {
		logrus.Warnf("Unable to display startup screen: %v", err)
	}
}
