// Package config resolves settings from flags, COURSEFORGE_* environment
// variables, an optional .env file and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "COURSEFORGE"
	DefaultEnvFile = ".env"
)

// Keys double as flag names; the env name is COURSEFORGE_<KEY> with dashes
// as underscores.
const (
	KeyDB          = "db"
	KeyLogMode     = "log-mode"
	KeyAddr        = "addr"
	KeyCORSOrigins = "cors-origins"

	KeyTemplate    = "template"
	KeyOutput      = "output"
	KeyFilename    = "filename"
	KeyFormat      = "format"
	KeyCount       = "count"
	KeyConcurrency = "concurrency"
	KeyWorkers     = "workers"
	KeySeed        = "seed"
	KeyCompress    = "compress"
	KeyEnrich      = "enrich"
	KeyRoadmaps    = "roadmaps"
	KeyTUI         = "tui"
)

type Config struct {
	DB      string
	LogMode string

	Serve    ServeConfig
	Generate GenerateConfig
}

type ServeConfig struct {
	Addr        string
	CORSOrigins []string
}

type GenerateConfig struct {
	Template    string
	OutputDir   string
	Filename    string
	Format      string
	Count       int
	Concurrency int
	Workers     int
	Seed        uint64
	Compress    bool
	Enrich      bool
	Roadmaps    bool
	TUI         bool
}

// New returns a viper instance with every default set and environment
// lookup enabled.
func New() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault(KeyDB, "")
	v.SetDefault(KeyLogMode, "dev")
	v.SetDefault(KeyAddr, ":8000")
	v.SetDefault(KeyCORSOrigins, "")

	v.SetDefault(KeyTemplate, "")
	v.SetDefault(KeyOutput, "./data")
	v.SetDefault(KeyFilename, "technical_courses.json")
	v.SetDefault(KeyFormat, "")
	v.SetDefault(KeyCount, 500)
	v.SetDefault(KeyConcurrency, 4)
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeySeed, uint64(0))
	v.SetDefault(KeyCompress, false)
	v.SetDefault(KeyEnrich, false)
	v.SetDefault(KeyRoadmaps, false)
	v.SetDefault(KeyTUI, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. An empty path loads ./.env when present.
func LoadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("stat %s: %w", DefaultEnvFile, err)
		}
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// BindFlags binds every flag in fs whose name is a config key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || !isKey(f.Name) {
			return
		}
		err = v.BindPFlag(f.Name, f)
	})
	return err
}

func isKey(name string) bool {
	switch name {
	case KeyDB, KeyLogMode, KeyAddr, KeyCORSOrigins, KeyTemplate, KeyOutput, KeyFilename,
		KeyFormat, KeyCount, KeyConcurrency, KeyWorkers, KeySeed, KeyCompress, KeyEnrich,
		KeyRoadmaps, KeyTUI:
		return true
	}
	return false
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DB:      v.GetString(KeyDB),
		LogMode: v.GetString(KeyLogMode),
		Serve: ServeConfig{
			Addr:        v.GetString(KeyAddr),
			CORSOrigins: splitList(v.GetString(KeyCORSOrigins)),
		},
		Generate: GenerateConfig{
			Template:    v.GetString(KeyTemplate),
			OutputDir:   v.GetString(KeyOutput),
			Filename:    v.GetString(KeyFilename),
			Format:      v.GetString(KeyFormat),
			Count:       v.GetInt(KeyCount),
			Concurrency: v.GetInt(KeyConcurrency),
			Workers:     v.GetInt(KeyWorkers),
			Seed:        v.GetUint64(KeySeed),
			Compress:    v.GetBool(KeyCompress),
			Enrich:      v.GetBool(KeyEnrich),
			Roadmaps:    v.GetBool(KeyRoadmaps),
			TUI:         v.GetBool(KeyTUI),
		},
	}
	return cfg, cfg.Validate()
}

// Production reports whether the prod log mode is selected.
func (c Config) Production() bool {
	switch strings.ToLower(c.LogMode) {
	case "prod", "production":
		return true
	}
	return false
}

func (c Config) Validate() error {
	var errs []string
	switch strings.ToLower(c.LogMode) {
	case "dev", "development", "prod", "production":
	default:
		errs = append(errs, fmt.Sprintf("log mode %q must be dev or prod", c.LogMode))
	}
	if c.Generate.Count < 0 {
		errs = append(errs, fmt.Sprintf("count must not be negative, got %d", c.Generate.Count))
	}
	if c.Generate.Concurrency < 1 {
		errs = append(errs, fmt.Sprintf("concurrency must be at least 1, got %d", c.Generate.Concurrency))
	}
	if c.Generate.Workers < 0 {
		errs = append(errs, fmt.Sprintf("workers must not be negative, got %d", c.Generate.Workers))
	}
	if len(errs) > 0 {
		return errors.New("invalid configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
