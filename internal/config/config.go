// =============================================================================
// langcsv - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the invocation options.
// Options can be built in code by an embedding pipeline step, or loaded from
// a YAML file by the CLI.
//
// CONFIGURATION SOURCES (lowest to highest precedence):
//   1. Built-in defaults (see ApplyDefaults)
//   2. YAML file (langcsv.yaml); ${VAR} references are expanded from the
//      environment before parsing
//   3. CLI flags (applied by the cmd package)
//
// =============================================================================

package config

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/langcsv/internal/types"
)

// DefaultDeleteValue is the sentinel meaning "no translation for this cell".
const DefaultDeleteValue = "**NO_TRANSLATIONS**"

// DefaultFallbackColumn is the column used when a language cell is empty.
const DefaultFallbackColumn = "en"

// =============================================================================
// OPTIONS STRUCTURE
// =============================================================================

// Options holds everything needed for one generation run.
type Options struct {
	// =========================================================================
	// SOURCE SETTINGS
	// =========================================================================

	// FilePath is the URL of the translation table.
	// Supported schemes: https, http, s3, file (or a bare local path).
	FilePath string `yaml:"file_path"`

	// SourceFormat is "csv" or "xlsx". When empty it is inferred from the
	// extension of the FilePath URL path, falling back to "csv".
	SourceFormat types.SourceFormat `yaml:"source_format"`

	// Delimiter separates CSV cells.
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Sheet selects the workbook sheet for xlsx sources.
	// Default: the first sheet
	Sheet string `yaml:"sheet"`

	// ScratchPath is where the downloaded table is stored.
	// The file is overwritten on every run.
	ScratchPath string `yaml:"scratch_path"`

	// DisableCacheBust turns off the _timestamp query parameter that is
	// appended to http(s) sources.
	DisableCacheBust bool `yaml:"disable_cache_bust"`

	// FetchTimeout bounds the download. Zero means no timeout.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// S3 holds credentials for s3:// sources.
	S3 S3Config `yaml:"s3"`

	// =========================================================================
	// COLUMN MAPPING
	// =========================================================================

	// ColumnKey is the CSV column holding the translation key.
	ColumnKey string `yaml:"column_key"`

	// ColumnValue lists the language columns, in processing order.
	ColumnValue []string `yaml:"column_value"`

	// FallbackColumn supplies the value when a language cell is empty.
	// Default: "en"
	FallbackColumn string `yaml:"fallback_column"`

	// DelValue lists sentinel values that are written out as "".
	// Default: ["**NO_TRANSLATIONS**"]
	DelValue []string `yaml:"del_value"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// Dest is the output directory prefix. It is concatenated, not joined,
	// so it normally ends with a slash ("locales/").
	Dest string `yaml:"dest"`

	// OutputName is inserted between Dest and the language code.
	OutputName string `yaml:"output_name"`

	// Output lists the formats to generate: json, strings, yml, xml, liquid.
	// Default: ["json"]
	Output []string `yaml:"output"`

	// =========================================================================
	// DIAGNOSTICS
	// =========================================================================

	// Debug controls diagnostic dumps (0-3).
	//   1: parsed rows and resolved options
	//   2: one line per produced cell
	//   3: JSON of every language
	Debug int `yaml:"debug"`

	// LogLevel is one of debug, info, warn, error.
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// OnComplete runs once after every planned file was written.
	OnComplete func() `yaml:"-"`
}

// S3Config holds settings for S3-compatible object storage sources.
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PathStyle bool   `yaml:"path_style"`
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

// Default returns Options with every default applied.
func Default() *Options {
	opts := &Options{}
	opts.ApplyDefaults()
	return opts
}

// Load reads options from a YAML file and applies defaults.
func Load(configPath string) (*Options, error) {
	opts, err := LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	opts.ApplyDefaults()
	return opts, nil
}

// LoadFile reads options from a YAML file without applying defaults, so a
// caller can layer more settings (CLI flags) on top first.
//
// Environment references (${VAR} or $VAR) in the file are expanded before
// parsing, so secrets such as S3 keys can stay out of the file.
func LoadFile(configPath string) (*Options, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	opts, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return opts, nil
}

// Parse decodes YAML options and applies defaults.
func Parse(data []byte) (*Options, error) {
	opts, err := Decode(data)
	if err != nil {
		return nil, err
	}

	opts.ApplyDefaults()
	return opts, nil
}

// Decode expands environment references and decodes YAML options.
func Decode(data []byte) (*Options, error) {
	expanded := os.ExpandEnv(string(data))

	var opts Options
	if err := yaml.Unmarshal([]byte(expanded), &opts); err != nil {
		return nil, err
	}

	return &opts, nil
}

// ApplyDefaults sets default values for any unset option.
// It is safe to call more than once.
func (o *Options) ApplyDefaults() {
	if len(o.Output) == 0 {
		o.Output = []string{string(types.FormatJSON)}
	}
	if len(o.DelValue) == 0 {
		o.DelValue = []string{DefaultDeleteValue}
	}
	if o.ColumnValue == nil {
		o.ColumnValue = []string{}
	}
	if o.FallbackColumn == "" {
		o.FallbackColumn = DefaultFallbackColumn
	}
	if o.Delimiter == "" {
		o.Delimiter = ","
	}
	if o.SourceFormat == "" {
		o.SourceFormat = InferSourceFormat(o.FilePath)
	}
	if o.ScratchPath == "" {
		o.ScratchPath = filepath.Join(os.TempDir(), "langcsv", "lang."+string(o.SourceFormat))
	}
	if o.S3.Region == "" {
		o.S3.Region = "us-east-1"
	}
	if o.LogLevel == "" {
		o.LogLevel = "info"
	}
	if o.LogFormat == "" {
		o.LogFormat = "text"
	}
	if o.OnComplete == nil {
		o.OnComplete = func() {}
	}
}

// InferSourceFormat guesses the table encoding from the source URL.
// Only a path ending in .xlsx selects the workbook reader.
func InferSourceFormat(source string) types.SourceFormat {
	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	}
	if strings.EqualFold(path.Ext(p), ".xlsx") {
		return types.SourceXLSX
	}
	return types.SourceCSV
}

// Formats resolves Output into Format values, dropping duplicates while
// keeping first-seen order. Unknown identifiers are returned separately.
func (o *Options) Formats() (formats []types.Format, unknown []string) {
	seen := make(map[types.Format]bool, len(o.Output))
	for _, raw := range o.Output {
		f, ok := types.ParseFormat(raw)
		if !ok {
			unknown = append(unknown, raw)
			continue
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, unknown
}

// IsDeleteValue reports whether v is one of the configured sentinels.
func (o *Options) IsDeleteValue(v string) bool {
	for _, d := range o.DelValue {
		if v == d {
			return true
		}
	}
	return false
}
