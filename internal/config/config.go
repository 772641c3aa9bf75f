// Package config loads the dashboard configuration and sets up logging.
package config

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-visits/internal/service"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Server    ServerConfig        `yaml:"server"`
	Log       LogConfig           `yaml:"log"`
	DataDir   string              `yaml:"data_dir"`
	Boundary  BoundaryConfig      `yaml:"boundary"`
	Viewport  service.Viewport    `yaml:"viewport"`
	MapStyle  string              `yaml:"map_style"`
	Tooltip   service.Tooltip     `yaml:"tooltip"`
	Cloud     service.CloudConfig `yaml:"cloud"`
	Churches  []service.POI       `yaml:"churches"`
	Temples   []service.POI       `yaml:"temples"`
	Counties  []string            `yaml:"counties"`
	POISource POISourceConfig     `yaml:"poi_source"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// BoundaryConfig selects the boundary resource and the region inside it.
type BoundaryConfig struct {
	// Path is a file path, or a bare file name inside <data_dir>/sources.
	Path string `yaml:"path"`
	// RegionIndex is positional: it depends on the feature order of the file.
	RegionIndex int     `yaml:"region_index"`
	RegionName  string  `yaml:"region_name"`
	Simplify    float64 `yaml:"simplify"`
}

// POISourceConfig switches the POI tables from the static lists to DuckDB.
type POISourceConfig struct {
	CSV    string `yaml:"csv"`
	Table  string `yaml:"table"`
	DBName string `yaml:"db_name"`
}

// Enabled reports whether POIs come from DuckDB.
func (c POISourceConfig) Enabled() bool {
	return c.CSV != ""
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Host: "0.0.0.0", Port: 8086},
		Log:     LogConfig{Level: "info", Format: "json"},
		DataDir: ".data",
		Boundary: BoundaryConfig{
			Path:        "gz_2010_us_040_00_500k.json",
			RegionIndex: 30,
			RegionName:  "Idaho",
		},
		Viewport: service.Viewport{Latitude: 44.0682, Longitude: -114.7420, Zoom: 6, Pitch: 50},
		MapStyle: "mapbox://styles/mapbox/light-v9",
		Tooltip: service.Tooltip{
			HTML:  "<b>{label}</b>",
			Style: map[string]string{"color": "white"},
		},
		Cloud: service.CloudConfig{
			Points:    1000,
			CenterLat: 43.6150,
			CenterLon: -116.2023,
			SpreadLat: 1.0 / 50,
			SpreadLon: 1.0 / 50,
		},
		Churches: []service.POI{
			{Latitude: 43.6150, Longitude: -116.2023, Label: "Church 1", Category: service.CategoryChurch},
			{Latitude: 43.4919, Longitude: -112.0405, Label: "Church 2", Category: service.CategoryChurch},
			{Latitude: 43.8231, Longitude: -116.9008, Label: "Church 3", Category: service.CategoryChurch},
		},
		Temples: []service.POI{
			{Latitude: 43.6629, Longitude: -116.1633, Label: "Temple 1", Category: service.CategoryTemple},
			{Latitude: 43.8250, Longitude: -111.7892, Label: "Temple 2", Category: service.CategoryTemple},
		},
		Counties: []string{
			"Madison", "Bonneville", "Bannock", "Bingham", "Power", "Jefferson", "Fremont", "Teton",
			"Clark", "Caribou", "Bear Lake", "Oneida", "Franklin", "Butte", "Custer", "Lemhi", "Idaho",
			"Blaine", "Camas", "Lincoln", "Minidoka", "Cassia", "Jerome", "Gooding", "Twin Falls",
			"Elmore", "Ada", "Boise", "Gem", "Payette", "Washington", "Valley", "Canyon", "Owyhee",
			"Adams", "Latah", "Lewis", "Nez Perce", "Clearwater", "Kootenai", "Benewah", "Shoshone",
			"Boundary", "Bonner",
		},
		POISource: POISourceConfig{Table: "poi", DBName: "visits"},
	}
}

// Load reads the YAML file at path over the defaults. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, eris.Wrapf(err, "config: read %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrapf(err, "config: parse %s", path)
	}
	return cfg, nil
}

// ComposerConfig returns the composer settings with the boundary path resolved.
func (c *Config) ComposerConfig(boundaryPath string) service.ComposerConfig {
	return service.ComposerConfig{
		BoundaryPath:      boundaryPath,
		RegionIndex:       c.Boundary.RegionIndex,
		RegionName:        c.Boundary.RegionName,
		SimplifyTolerance: c.Boundary.Simplify,
		Viewport:          c.Viewport,
		MapStyle:          c.MapStyle,
		Tooltip:           c.Tooltip,
		Cloud:             c.Cloud,
	}
}

// StaticPOIs returns the configured POI tables as a POI source.
func (c *Config) StaticPOIs() service.StaticPOISource {
	return service.StaticPOISource{
		service.CategoryChurch: c.Churches,
		service.CategoryTemple: c.Temples,
	}
}

// InitLogger builds the global zap logger from cfg.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
