package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultFileName = "bsindex.yaml"
	CurrentVersion  = 1

	// EnvPrefix marks environment overrides, e.g. BSINDEX_REPOSITORY_BASE_URL.
	EnvPrefix = "BSINDEX_"

	maxConfigFileSize = 1 << 20
)

// ErrInvalidConfig marks configuration that failed to load or validate.
var ErrInvalidConfig = errors.New("invalid config")

var listKeys = map[string]bool{
	"repository.mirrors": true,
	"source.include":     true,
	"source.exclude":     true,
}

// Load reads path, overlays BSINDEX_* environment variables, applies defaults
// and validates the result.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidConfig, path, maxConfigFileSize)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse is Load without the file read.
func Parse(content []byte) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %w", ErrInvalidConfig, err)
	}
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("%w: load environment: %w", ErrInvalidConfig, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKeyValue maps BSINDEX_SECTION_FIELD_NAME to section.field_name. List
// values are comma separated.
func envKeyValue(key, value string) (string, interface{}) {
	lower := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower, value
	}
	path := parts[0] + "." + parts[1]
	if listKeys[path] {
		return path, splitList(value)
	}
	return path, value
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func Normalize(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}
	if cfg.Source.Type == "" {
		cfg.Source.Type = SourceDir
	}
	if cfg.Source.Path == "" {
		cfg.Source.Path = "."
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "out"
	}
	if cfg.Output.Backup == "" {
		cfg.Output.Backup = BackupNone
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	cfg.Repository.BaseURL = strings.TrimSpace(cfg.Repository.BaseURL)
}

func Validate(cfg *Config) error {
	if cfg.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidConfig, cfg.Version)
	}
	if err := newValidator().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, describeFieldError(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("koanf"), ",")
		return name
	})
	_ = v.RegisterValidation("filemode", func(fl validator.FieldLevel) bool {
		_, err := ParseFileMode(fl.Field().String())
		return err == nil
	})
	return v
}

func describeFieldError(fe validator.FieldError) string {
	// Namespace is "Config.section.field"; drop the root type name.
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s must satisfy %s", field, fe.Tag())
}

// ParseFileMode parses an octal permission string such as "0644". An empty
// string yields 0644.
func ParseFileMode(value string) (os.FileMode, error) {
	if strings.TrimSpace(value) == "" {
		return 0o644, nil
	}
	parsed, err := strconv.ParseUint(value, 8, 32)
	if err != nil || parsed > 0o777 {
		return 0, fmt.Errorf("invalid file mode %q", value)
	}
	return os.FileMode(parsed), nil
}
