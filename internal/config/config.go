// Package config loads run configuration from config.yaml with FDIR_
// prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SheetNames holds the workbook sheet names for the rules input.
type SheetNames struct {
	Definitions string `mapstructure:"definitions"`
	Monitors    string `mapstructure:"monitors"`
	Conditions  string `mapstructure:"conditions"`
}

// ColumnNames holds the column names of the rules tables.
type ColumnNames struct {
	Name      string `mapstructure:"name"`
	Key       string `mapstructure:"key"`
	Monitor   string `mapstructure:"monitor"`
	Threshold string `mapstructure:"threshold"`
	Condition string `mapstructure:"condition"`
	Count     string `mapstructure:"count"`
	Response  string `mapstructure:"response"`
}

// Config is the resolved configuration for a run.
type Config struct {
	InputPath    string            `mapstructure:"input_path"`
	ResponsePath string            `mapstructure:"response_path"`
	LookupPath   string            `mapstructure:"lookup_path"`
	OutputDir    string            `mapstructure:"output_dir"`
	Mode         string            `mapstructure:"mode"`
	Aliases      map[string]string `mapstructure:"aliases"`
	Sheets       SheetNames        `mapstructure:"sheets"`
	Columns      ColumnNames       `mapstructure:"columns"`
}

// Default returns the configuration matching the stock input layout.
func Default() Config {
	return Config{
		InputPath:    "inputs/data.xlsx",
		ResponsePath: "inputs/response_text.xlsx",
		LookupPath:   "outputs/response_lookup_table.xlsx",
		OutputDir:    "outputs",
		Sheets: SheetNames{
			Definitions: "definitions",
			Monitors:    "monitors",
			Conditions:  "conditions",
		},
		Columns: ColumnNames{
			Name:      "FDIRs",
			Key:       "id",
			Monitor:   "mons",
			Threshold: "thresholds",
			Condition: "condition_mons",
			Count:     "counts",
			Response:  "response",
		},
	}
}

// Load reads config.yaml from the given directory, falling back to defaults
// when no file is present. Environment variables like FDIR_OUTPUT_DIR or
// FDIR_SHEETS_DEFINITIONS override file values.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.SetEnvPrefix("FDIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("input_path", cfg.InputPath)
	v.SetDefault("response_path", cfg.ResponsePath)
	v.SetDefault("lookup_path", cfg.LookupPath)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("sheets.definitions", cfg.Sheets.Definitions)
	v.SetDefault("sheets.monitors", cfg.Sheets.Monitors)
	v.SetDefault("sheets.conditions", cfg.Sheets.Conditions)
	v.SetDefault("columns.name", cfg.Columns.Name)
	v.SetDefault("columns.key", cfg.Columns.Key)
	v.SetDefault("columns.monitor", cfg.Columns.Monitor)
	v.SetDefault("columns.threshold", cfg.Columns.Threshold)
	v.SetDefault("columns.condition", cfg.Columns.Condition)
	v.SetDefault("columns.count", cfg.Columns.Count)
	v.SetDefault("columns.response", cfg.Columns.Response)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
