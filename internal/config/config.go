// Package config manages application configuration from files and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CONTENTKIT_MERGE_INPUT.
const EnvPrefix = "CONTENTKIT"

// Language names the content sheet of one language in the merge workbook.
type Language struct {
	Code  string `mapstructure:"code" json:"code"`
	Sheet string `mapstructure:"sheet" json:"sheet"`
}

// Convert configures the Word to spreadsheet conversion.
type Convert struct {
	SourceDir  string  `mapstructure:"source_dir" json:"sourceDir"`
	OutputDir  string  `mapstructure:"output_dir" json:"outputDir"`
	SheetName  string  `mapstructure:"sheet_name" json:"sheetName"`
	WrapColumn string  `mapstructure:"wrap_column" json:"wrapColumn"`
	WrapWidth  float64 `mapstructure:"wrap_width" json:"wrapWidth"`
}

// Merge configures the workbook merge.
type Merge struct {
	Input         string     `mapstructure:"input" json:"input"`
	Output        string     `mapstructure:"output" json:"output"`
	PrimarySheet  string     `mapstructure:"primary_sheet" json:"primarySheet"`
	OutputSheet   string     `mapstructure:"output_sheet" json:"outputSheet"`
	KeyColumn     string     `mapstructure:"key_column" json:"keyColumn"`
	Hierarchy     string     `mapstructure:"hierarchy" json:"hierarchy"`
	NormalizeKeys bool       `mapstructure:"normalize_keys" json:"normalizeKeys"`
	Languages     []Language `mapstructure:"languages" json:"languages"`
}

// Config holds the application configuration.
type Config struct {
	LogLevel  string  `mapstructure:"log_level" json:"logLevel"`
	LogFormat string  `mapstructure:"log_format" json:"logFormat"`
	Convert   Convert `mapstructure:"convert" json:"convert"`
	Merge     Merge   `mapstructure:"merge" json:"merge"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" json:"file,omitempty"`
}

// SetDefaults registers the built-in defaults with viper.
func SetDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "auto")

	viper.SetDefault("convert.source_dir", "textSources")
	viper.SetDefault("convert.output_dir", "output")
	viper.SetDefault("convert.sheet_name", "Sheet1")
	viper.SetDefault("convert.wrap_column", "Fliesstext")
	viper.SetDefault("convert.wrap_width", 400)

	viper.SetDefault("merge.input", "WIP/WIP--Japan_de_Luxe_Audio-Cult_INHALTE.xlsx")
	viper.SetDefault("merge.output", "WIP/WIP--Japan_de_Luxe_Audio-Cult_INHALTE_UPDATED.xlsx")
	viper.SetDefault("merge.primary_sheet", "WIP Tracks")
	viper.SetDefault("merge.output_sheet", "Sheet1")
	viper.SetDefault("merge.key_column", "Text-Kennnummer")
	viper.SetDefault("merge.hierarchy", filepath.Join("configs", "hierarchy.yaml"))
	viper.SetDefault("merge.normalize_keys", false)
	viper.SetDefault("merge.languages", []map[string]any{
		{"code": "de", "sheet": "DE Content"},
		{"code": "fr", "sheet": "FR Content"},
		{"code": "en", "sheet": "EN Content"},
	})
}

// Load reads .env from the working directory, then the config file, then
// CONTENTKIT_* environment variables, on top of the defaults. If file is
// empty, contentkit.yaml is looked up in the working directory and in
// ~/.contentkit; a missing file is not an error. An explicit file must exist.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if file != "" {
		viper.SetConfigFile(file)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config %s: %w", file, err)
		}
	} else {
		viper.SetConfigName("contentkit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(Dir())
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("could not read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.File = viper.ConfigFileUsed()

	return &cfg, nil
}

// Dir returns the per-user config directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".contentkit"
	}
	return filepath.Join(home, ".contentkit")
}
