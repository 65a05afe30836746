package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const paramFilename = "param.yaml"
const envFilename = ".env"
const snapshotFilename = "frame.png"

type ServerConfig struct {
	ConfigDir      string
	DebugMode      bool
	SimulationMode bool

	Location *time.Location

	*ServerParam
}

func NewServerConfig(configDir string, debugMode bool, simulationMode bool) *ServerConfig {
	serverConfig := &ServerConfig{
		ConfigDir:      configDir,
		DebugMode:      debugMode,
		SimulationMode: simulationMode,
	}

	// Check Configuration folder
	_, err := os.Stat(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Printf("Creation of config folder: %s", configDir)
			err = os.Mkdir(configDir, 0770)
			if err != nil {
				logrus.Fatalf("Unable to create config folder: %v\n", err)
			}
		} else {
			logrus.Fatalf("Unable to access config folder: %s", configDir)
		}
	}

	// Open param file
	rawConfig, err := os.ReadFile(serverConfig.GetCompleteParamFilename())
	if err == nil {
		serverConfig.ServerParam, err = ParseParam(rawConfig)
		if err != nil {
			logrus.Fatalf("Unable to interpret config file: %v\n", err)
		}
	} else {
		// Create default param file
		logrus.Infof("Create default param file")
		serverConfig.ServerParam, err = ParseParam(ParamDefaultFile)
		if err != nil {
			logrus.Fatalf("Unable to interpret config file: %v\n", err)
		}

		serverConfig.SaveParam()
	}

	// Environment overrides the param file, an optional .env file fills the environment
	err = godotenv.Load(serverConfig.GetCompleteEnvFilename())
	if err == nil {
		logrus.Infof("Loaded %s", serverConfig.GetCompleteEnvFilename())
	} else if !os.IsNotExist(errors.Cause(err)) {
		logrus.Warnf("Unable to load %s: %v", serverConfig.GetCompleteEnvFilename(), err)
	}
	err = ApplyEnv(serverConfig.ServerParam, os.LookupEnv)
	if err != nil {
		logrus.Fatalf("Unable to apply environment: %v\n", err)
	}

	err = serverConfig.ServerParam.Validate()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v\n", err)
	}

	serverConfig.Location, err = time.LoadLocation(serverConfig.Timezone)
	if err != nil {
		logrus.Fatalf("Unknown timezone %s: %v\n", serverConfig.Timezone, err)
	}

	return serverConfig
}

// ParseParam decodes a param file. Missing values keep the defaults of the
// embedded param file, except panels which are replaced as a whole.
func ParseParam(raw []byte) (*ServerParam, error) {
	param := &ServerParam{}
	if err := yaml.Unmarshal(ParamDefaultFile, param); err != nil {
		return nil, errors.Wrap(err, "default param file")
	}
	param.Panels = nil
	if err := yaml.Unmarshal(raw, param); err != nil {
		return nil, err
	}
	return param, nil
}

func (sp *ServerParam) Validate() error {
	if sp.RefreshInterval <= 0 {
		return errors.New("refresh_interval must be positive")
	}
	if sp.DisplayParam.Width <= 0 || sp.DisplayParam.Height <= 0 {
		return errors.New("display size must be positive")
	}
	if sp.DisplayParam.LineHeight <= 0 || sp.DisplayParam.MaxLines <= 0 {
		return errors.New("display line_height and max_lines must be positive")
	}
	if len(sp.Panels) == 0 {
		return errors.New("no panel configured")
	}
	for i, panel := range sp.Panels {
		switch panel.Type {
		case SensorPanel:
			if panel.SensorId == "" {
				return errors.Errorf("panel %d: sensor_id is required", i)
			}
			if sp.InfluxParam.Window <= 0 {
				return errors.New("influxdb window must be positive")
			}
		case HostPanel:
		case FilePanel:
			if panel.Path == "" {
				return errors.Errorf("panel %d: path is required", i)
			}
		default:
			return errors.Errorf("panel %d: unknown type %q", i, panel.Type)
		}
	}
	return nil
}

func (sc *ServerConfig) GetCompleteParamFilename() string {
	return filepath.Join(sc.ConfigDir, paramFilename)
}

func (sc *ServerConfig) GetCompleteEnvFilename() string {
	return filepath.Join(sc.ConfigDir, envFilename)
}

func (sc *ServerConfig) GetCompleteSnapshotFilename() string {
	return filepath.Join(sc.ConfigDir, snapshotFilename)
}

func (sc *ServerConfig) SaveParam() {
	logrus.Debugf("Save param file: %s", sc.GetCompleteParamFilename())
	rawConfig, err := yaml.Marshal(*sc.ServerParam)
	if err != nil {
		logrus.Fatalf("Unable to serialize param file: %v\n", err)
	}
	err = os.WriteFile(sc.GetCompleteParamFilename(), rawConfig, 0660)
	if err != nil {
		logrus.Fatalf("Unable to save param file: %v\n", err)
	}
}
