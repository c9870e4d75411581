// Package config holds the settings of the hull application.
package config

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Addr is where the preview server listens.
	Addr     string `yaml:"addr"`
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
	// Debounce is how long the server waits after an edit before it
	// rebuilds the hull.
	Debounce time.Duration `yaml:"debounce"`
	// Concurrency bounds batch builds, 0 means GOMAXPROCS.
	Concurrency int `yaml:"concurrency"`
	// PointsFile is an anchor CSV loaded at startup.
	PointsFile string `yaml:"points_file"`
	Watch      bool   `yaml:"watch"`
}

func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Debounce: 200 * time.Millisecond,
	}
}

// Load reads a YAML file over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "open config")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(err, "decode config %s", path)
	}
	return cfg, nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}

// Validate reports every bad value at once.
func (c Config) Validate() error {
	var err error
	if c.Addr == "" {
		err = multierr.Append(err, errors.New("addr is empty"))
	}
	if _, lerr := c.Level(); lerr != nil {
		err = multierr.Append(err, errors.Wrap(lerr, "log_level"))
	}
	if c.Debounce < 0 {
		err = multierr.Append(err, errors.Errorf("debounce is negative: %s", c.Debounce))
	}
	if c.Concurrency < 0 {
		err = multierr.Append(err, errors.Errorf("concurrency is negative: %d", c.Concurrency))
	}
	if c.Watch && c.PointsFile == "" {
		err = multierr.Append(err, errors.New("watch needs points_file"))
	}
	return err
}
