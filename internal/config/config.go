// Package config loads the application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source    SourceConfig    `yaml:"source" mapstructure:"source"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Warehouse WarehouseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SourceConfig locates the input resource.
type SourceConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Sheet  string `yaml:"sheet" mapstructure:"sheet"`
	CSVSep string `yaml:"csv_sep" mapstructure:"csv_sep"`
}

// StoreConfig configures the warehouse backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	BatchSize   int    `yaml:"batch_size" mapstructure:"batch_size"`
}

// WarehouseConfig configures warehouse-design choices.
type WarehouseConfig struct {
	// SubjectVariant selects the subject representation: "aggregate"
	// keeps one joined entry per student-year, "bridge" a many-to-many
	// bridge over atomic subjects.
	SubjectVariant string `yaml:"subject_variant" mapstructure:"subject_variant"`
}

// OutputConfig configures file outputs.
type OutputConfig struct {
	CleanDir  string `yaml:"clean_dir" mapstructure:"clean_dir"`
	ExportDir string `yaml:"export_dir" mapstructure:"export_dir"`
	ListSep   string `yaml:"list_sep" mapstructure:"list_sep"`
	ExportSep string `yaml:"export_sep" mapstructure:"export_sep"`
	WriteXLSX bool   `yaml:"write_xlsx" mapstructure:"write_xlsx"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DWH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key needs one, even if empty: keys absent from both
	// defaults and the config file are invisible to Unmarshal, so their
	// environment variables would be silently ignored.
	v.SetDefault("source.path", "")
	v.SetDefault("source.sheet", "")
	v.SetDefault("source.csv_sep", "")
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.sqlite_path", "dwh.db")
	v.SetDefault("store.batch_size", 1000)
	v.SetDefault("warehouse.subject_variant", "aggregate")
	v.SetDefault("output.clean_dir", "clean")
	v.SetDefault("output.export_dir", "exports")
	v.SetDefault("output.list_sep", "; ")
	v.SetDefault("output.export_sep", ",")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configuration values the pipeline cannot honor.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "postgres", "sqlite":
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	switch c.Warehouse.SubjectVariant {
	case "aggregate", "bridge":
	default:
		return eris.Errorf("config: unknown subject variant %q", c.Warehouse.SubjectVariant)
	}
	// A separator with no visible character cannot delimit the joined
	// subject list when it is split back into tokens.
	if c.Output.ListSep != "" && strings.TrimSpace(c.Output.ListSep) == "" {
		return eris.Errorf("config: output list_sep %q is all whitespace", c.Output.ListSep)
	}
	return nil
}

// ExportSeparator returns the export field separator as a rune.
func (c *Config) ExportSeparator() rune {
	if c.Output.ExportSep == "" {
		return ','
	}
	return []rune(c.Output.ExportSep)[0]
}

// CSVSeparator returns the source CSV field separator as a rune.
func (c *Config) CSVSeparator() rune {
	if c.Source.CSVSep == "" {
		return ','
	}
	return []rune(c.Source.CSVSep)[0]
}

// InitLogger initializes the global zap logger.
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
