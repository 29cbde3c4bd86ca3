package main

import (
	"context"
	"io"

	"github.com/pborman/getopt/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"room_air_calc/roomair"
)

const (
	defaultConfigFile      = "config.yaml"
	defaultOutputDir       = "."
	defaultInterval        = IntervalM15
	defaultSystemSteps     = 1
	defaultMongoDatabase   = "room_air"
	defaultMongoCollection = "report"
	defaultOutBaroPress    = 101325.0
)

type OutputConfig struct {
	Dir             string `yaml:"dir"`
	CSV             bool   `yaml:"csv"`
	SQLite          string `yaml:"sqlite"`
	MongoURI        string `yaml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`
}

type Config struct {
	LogLevel               zapcore.Level `yaml:"log_level"`
	Interval               Interval      `yaml:"interval"`
	SystemStepsPerZoneStep int           `yaml:"system_steps_per_zone_step"`
	Steps                  int           `yaml:"steps"`
	OutBaroPress           float64       `yaml:"outdoor_barometric_pressure"`
	Scenario               string        `yaml:"scenario"`
	MetricsAddr            string        `yaml:"metrics_addr"`
	Output                 OutputConfig  `yaml:"output"`
	Model                  roomair.Input `yaml:"model"`
}

func defConfig() *Config {
	return &Config{
		LogLevel:               zapcore.InfoLevel,
		Interval:               defaultInterval,
		SystemStepsPerZoneStep: defaultSystemSteps,
		OutBaroPress:           defaultOutBaroPress,
		Output: OutputConfig{
			Dir:             defaultOutputDir,
			CSV:             true,
			MongoDatabase:   defaultMongoDatabase,
			MongoCollection: defaultMongoCollection,
		},
	}
}

func (cfg *Config) FillDefaults() {
	if cfg.Interval == "" {
		cfg.Interval = defaultInterval
	}
	if cfg.SystemStepsPerZoneStep <= 0 {
		cfg.SystemStepsPerZoneStep = defaultSystemSteps
	}
	if cfg.OutBaroPress == 0.0 {
		cfg.OutBaroPress = defaultOutBaroPress
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
	if cfg.Output.MongoDatabase == "" {
		cfg.Output.MongoDatabase = defaultMongoDatabase
	}
	if cfg.Output.MongoCollection == "" {
		cfg.Output.MongoCollection = defaultMongoCollection
	}
	cfg.Model.FillDefaults()
}

func (cfg *Config) Validate() error {
	if _, err := cfg.Interval.get_n_hour(); err != nil {
		return err
	}
	if cfg.Steps <= 0 && cfg.Scenario == "" {
		return errors.New("steps must be positive when no scenario is given")
	}
	if cfg.OutBaroPress <= 0.0 {
		return errors.Errorf("outdoor_barometric_pressure must be positive, got %g", cfg.OutBaroPress)
	}
	if len(cfg.Model.Zones) == 0 {
		return errors.New("model has no zones")
	}
	return nil
}

/*
YAML の設定を読み込み、既定値で補う。
*/
func parseConfig(r io.Reader) (*Config, error) {
	cfg := defConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to read config")
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WithMessage(err, "failed to unmarshal config")
		}
	}

	cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid config")
	}
	return cfg, nil
}

type options struct {
	configFile  string
	logLevel    string
	outputDir   string
	sqlite      string
	mongoURI    string
	metricsAddr string
}

func parseFlags(args []string) (*options, error) {
	set := getopt.New()
	opts := &options{}
	set.FlagLong(&opts.configFile, "config", 'c', "config file pathname, URL or s3://bucket/key")
	set.FlagLong(&opts.logLevel, "log-level", 'l', "log levels: debug, info, warn, error")
	set.FlagLong(&opts.outputDir, "output", 'o', "output directory")
	set.FlagLong(&opts.sqlite, "sqlite", 0, "SQLite file for the report")
	set.FlagLong(&opts.mongoURI, "mongo-uri", 0, "MongoDB connection string for the report")
	set.FlagLong(&opts.metricsAddr, "metrics-addr", 0, "address of the /metrics endpoint")
	opts.configFile = defaultConfigFile

	if err := set.Getopt(args, nil); err != nil {
		return nil, errors.WithMessage(err, "failed to parse flags")
	}
	return opts, nil
}

/*
設定ファイルを読み込み、コマンドライン引数で上書きする。
*/
func loadConfig(ctx context.Context, opts *options) (*Config, error) {
	rc, err := openSource(ctx, opts.configFile)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	cfg, err := parseConfig(rc)
	if err != nil {
		return nil, errors.WithMessagef(err, "config %s", opts.configFile)
	}

	if opts.logLevel != "" {
		if err := cfg.LogLevel.Set(opts.logLevel); err != nil {
			return nil, errors.WithMessagef(err, "wrong log level `%v`", opts.logLevel)
		}
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	if opts.sqlite != "" {
		cfg.Output.SQLite = opts.sqlite
	}
	if opts.mongoURI != "" {
		cfg.Output.MongoURI = opts.mongoURI
	}
	if opts.metricsAddr != "" {
		cfg.MetricsAddr = opts.metricsAddr
	}
	return cfg, nil
}

func prettyPrint(cfg *Config) {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		L().Errorw("Failed to marshal config for pretty print", "error", err)
		return
	}
	L().Debugf("--- Config ---\n%s\n\n", string(d))
}
