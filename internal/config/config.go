// Package config holds seqsearch run settings and their TOML file form.
//
// Precedence is defaults, then the config file, then flags set explicitly on
// the command line.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Search modes.
const (
	ModeNaive       = "naive"
	ModeSuffixArray = "suffixarray"
	ModeFMIndex     = "fmindex"
	ModePigeon      = "pigeon"
)

// Index backends.
const (
	BackendSA = "sa"
	BackendFM = "fm"
)

// ErrInvalid marks a configuration the run cannot start with.
var ErrInvalid = errors.New("invalid configuration")

// Config is the union of build and search settings.
type Config struct {
	Mode         string `toml:"mode"`
	Backend      string `toml:"backend"`
	Reference    string `toml:"reference"`
	Index        string `toml:"index"`
	Query        string `toml:"query"`
	QueryCount   int    `toml:"query_ct"`
	Errors       int    `toml:"errors"`
	Threads      int    `toml:"threads"`
	MinBlock     int    `toml:"min_block"`
	Guard        int    `toml:"guard"`
	SamplingRate int    `toml:"sampling_rate"`
	Codec        string `toml:"codec"`
	LogLevel     string `toml:"log_level"`
	LogFormat    string `toml:"log_format"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		QueryCount:   100,
		MinBlock:     1,
		Guard:        1,
		SamplingRate: 16,
		Codec:        "zstd",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// LoadFile decodes the TOML file at path over c. Unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return nil
}

// Override copies the named settings from src. Names are TOML keys; flag
// spellings with dashes are accepted.
func (c *Config) Override(src *Config, names ...string) {
	for _, name := range names {
		switch strings.ReplaceAll(name, "-", "_") {
		case "mode":
			c.Mode = src.Mode
		case "backend":
			c.Backend = src.Backend
		case "reference":
			c.Reference = src.Reference
		case "index":
			c.Index = src.Index
		case "query":
			c.Query = src.Query
		case "query_ct":
			c.QueryCount = src.QueryCount
		case "errors":
			c.Errors = src.Errors
		case "threads":
			c.Threads = src.Threads
		case "min_block":
			c.MinBlock = src.MinBlock
		case "guard":
			c.Guard = src.Guard
		case "sampling_rate":
			c.SamplingRate = src.SamplingRate
		case "codec":
			c.Codec = src.Codec
		case "log_level":
			c.LogLevel = src.LogLevel
		case "log_format":
			c.LogFormat = src.LogFormat
		}
	}
}

// EffectiveBackend resolves the index backend a mode runs on.
func (c *Config) EffectiveBackend() string {
	switch c.Mode {
	case ModeSuffixArray:
		return BackendSA
	case ModeFMIndex:
		return BackendFM
	case ModeNaive:
		return ""
	}
	if c.Backend == "" {
		return BackendFM
	}
	return c.Backend
}

func (c *Config) validateCommon() error {
	if c.Reference == "" {
		return fmt.Errorf("%w: --reference is required", ErrInvalid)
	}
	if c.Guard < 1 {
		return fmt.Errorf("%w: --guard must be >= 1, got %d", ErrInvalid, c.Guard)
	}
	if c.SamplingRate < 1 {
		return fmt.Errorf("%w: --sampling-rate must be >= 1, got %d", ErrInvalid, c.SamplingRate)
	}
	switch c.Backend {
	case "", BackendSA, BackendFM:
	default:
		return fmt.Errorf("%w: unknown backend %q (want sa or fm)", ErrInvalid, c.Backend)
	}
	return nil
}

// ValidateBuild checks the settings of an index build.
func (c *Config) ValidateBuild() error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	if c.Index == "" {
		return fmt.Errorf("%w: --index is required", ErrInvalid)
	}
	return nil
}

// ValidateSearch checks the settings of a search run.
func (c *Config) ValidateSearch() error {
	switch c.Mode {
	case ModeNaive, ModeSuffixArray, ModeFMIndex, ModePigeon:
	case "":
		return fmt.Errorf("%w: --mode is required", ErrInvalid)
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Mode)
	}
	if err := c.validateCommon(); err != nil {
		return err
	}
	if c.Query == "" {
		return fmt.Errorf("%w: --query is required", ErrInvalid)
	}
	if c.QueryCount < 0 {
		return fmt.Errorf("%w: --query_ct must be >= 0, got %d", ErrInvalid, c.QueryCount)
	}
	if c.Errors < 0 {
		return fmt.Errorf("%w: --errors must be >= 0, got %d", ErrInvalid, c.Errors)
	}
	if c.Threads < 0 {
		return fmt.Errorf("%w: --threads must be >= 0, got %d", ErrInvalid, c.Threads)
	}
	if c.MinBlock < 1 {
		return fmt.Errorf("%w: --min_block must be >= 1, got %d", ErrInvalid, c.MinBlock)
	}
	if c.Backend != "" && c.Mode != ModePigeon && c.Backend != c.EffectiveBackend() {
		return fmt.Errorf("%w: --backend %s does not apply to mode %s", ErrInvalid, c.Backend, c.Mode)
	}
	return nil
}
