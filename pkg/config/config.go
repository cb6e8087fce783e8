package config

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// DefaultFile is loaded from the current working directory if it exists
const DefaultFile = "mkmf.toml"

// Config describes all configuration options
type Config struct {
	SrcDir string `env:"SRC_DIR" usage:"Node.js checkout containing the gyp output (defaults to $HOME/git/node)"`
	Output string `default:"Makefile" usage:"Path of the generated Makefile"`
	Debug  bool   `default:"false" usage:"Include error stack traces and all event fields in log messages"`
	Log    struct {
		Level string `default:"info"`
		JSON  bool   `default:"false" usage:"Output JSON lines instead of coloured console messages"`
	}
}

var logLevels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object.
// Values are read from MKMF_* environment variables and the passed TOML files (mkmf.toml if
// none were passed). Command line flags are handled by cobra instead.
func Loader(files ...string) (*Config, *aconfig.Loader) {
	if len(files) == 0 {
		files = []string{DefaultFile}
	}

	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		EnvPrefix: "MKMF",
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load is a shortcut for Loader(files...) followed by Load() and Validate()
func Load(files ...string) (*Config, error) {
	cfg, loader := Loader(files...)
	if err := loader.Load(); err != nil {
		return nil, eris.Wrap(err, "failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	if _, ok := logLevels[cfg.Log.Level]; !ok {
		return eris.Errorf("Invalid value for log.level: %s", cfg.Log.Level)
	}

	if cfg.Output == "" {
		return eris.New("output must not be empty")
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}
