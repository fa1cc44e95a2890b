package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Report defaults
	Bins       int     `mapstructure:"bins" yaml:"bins"`
	SampleRows int     `mapstructure:"sample_rows" yaml:"sample_rows"`
	CorrReject float64 `mapstructure:"corr_reject" yaml:"corr_reject"`
	// Describer options forwarded as the opaque config mapping
	FreqTop         int    `mapstructure:"freq_top" yaml:"freq_top"`
	MaxRows         int    `mapstructure:"max_rows" yaml:"max_rows"`
	HighCardinality int    `mapstructure:"high_cardinality" yaml:"high_cardinality"`
	Decimal         string `mapstructure:"decimal" yaml:"decimal,omitempty"`

	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Databricks workspace used by standalone --target dbfs
	DBFSHost       string `mapstructure:"dbfs_host" yaml:"dbfs_host,omitempty"`
	DBFSToken      string `mapstructure:"dbfs_token" yaml:"dbfs_token,omitempty"`
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
}

// Keys lists the settable configuration keys.
var Keys = []string{
	"bins", "sample_rows", "corr_reject", "freq_top", "max_rows", "high_cardinality",
	"decimal", "output_dir", "dbfs_host", "dbfs_token", "http_timeout_sec",
}

// DescriberConfig returns the options forwarded to the describer.
func (c *Global) DescriberConfig() map[string]any {
	m := map[string]any{"max_rows": c.MaxRows}
	if c.FreqTop > 0 {
		m["freq_top"] = c.FreqTop
	}
	if c.HighCardinality > 0 {
		m["high_cardinality"] = c.HighCardinality
	}
	if c.Decimal != "" {
		m["decimal"] = c.Decimal
	}
	return m
}

// DefaultPath returns ~/.dfprofile/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dfprofile", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dfprofile/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DFPROFILE")
	v.AutomaticEnv()
	// Standard Databricks CLI variables are honoured as well.
	_ = v.BindEnv("dbfs_host", "DFPROFILE_DBFS_HOST", "DATABRICKS_HOST")
	_ = v.BindEnv("dbfs_token", "DFPROFILE_DBFS_TOKEN", "DATABRICKS_TOKEN")

	v.SetDefault("bins", 10)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("corr_reject", 0.9)
	v.SetDefault("freq_top", 10)
	v.SetDefault("max_rows", 0)
	v.SetDefault("high_cardinality", 50)
	v.SetDefault("decimal", "")
	v.SetDefault("output_dir", "")
	v.SetDefault("dbfs_host", "")
	v.SetDefault("dbfs_token", "")
	v.SetDefault("http_timeout_sec", 60)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".dfprofile"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
