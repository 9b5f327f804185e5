package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/alps/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks environment variables read as configuration
	EnvPrefix = "ALPS_"

	// FileName is the user configuration file name
	FileName = "config.toml"
)

// sections are the nested tables; ALPS_<SECTION>_<KEY> maps to section.key
var sections = []string{"packages", "elevate", "exec"}

// LoadOptions controls Load.
type LoadOptions struct {
	// ConfigFile overrides the user config location. Empty means
	// $XDG_CONFIG_HOME/alps/config.toml.
	ConfigFile string
	// Overrides are applied last, keyed by dotted koanf path (for example
	// "root" from --root).
	Overrides map[string]interface{}
}

// DefaultFilePath returns $XDG_CONFIG_HOME/alps/config.toml
func DefaultFilePath() string {
	return filepath.Join(xdg.ConfigHome, "alps", FileName)
}

// Load builds the configuration from defaults, the user file, the
// environment and overrides, in that order of increasing precedence.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file if it exists
	var sources []string
	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = DefaultFilePath()
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", configFile).
				WithDetail("path", configFile)
		}
		sources = append(sources, configFile)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", configFile)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Flag overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				stringToArgvHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.Sources = sources

	// 6. Post-process
	if err := postProcessConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps ALPS_PACKAGES_INSTALL to packages.install and
// ALPS_RECORD_EXTENSION to record_extension.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// stringToArgvHookFunc splits a plain string on whitespace when the target
// is a string slice, so "sudo pacman -S {...}" works from the environment.
func stringToArgvHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Slice || t.Elem().Kind() != reflect.String {
			return data, nil
		}
		s, _ := data.(string)
		return strings.Fields(s), nil
	}
}

func postProcessConfig(cfg *Config) error {
	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, errors.ErrConfigValid, "cannot determine home directory")
		}
		cfg.Home = home
	}
	cfg.Home = filepath.Clean(cfg.Home)

	if cfg.Root == "" {
		cfg.Root = filepath.Join(xdg.ConfigHome, "alps")
	} else if cfg.Root == "~" {
		cfg.Root = cfg.Home
	} else if rest, ok := strings.CutPrefix(cfg.Root, "~/"); ok {
		cfg.Root = filepath.Join(cfg.Home, rest)
	}

	if cfg.Editor == "" {
		cfg.Editor = os.Getenv("EDITOR")
	}

	switch {
	case cfg.Placeholder == "":
		return errors.New(errors.ErrConfigValid, "placeholder must not be empty")
	case strings.ContainsRune(cfg.Placeholder, filepath.Separator):
		return errors.Newf(errors.ErrConfigValid, "placeholder %q must not contain a path separator", cfg.Placeholder)
	case cfg.RecordExtension == "":
		return errors.New(errors.ErrConfigValid, "record_extension must not be empty")
	case len(cfg.Packages.Search) == 0:
		return errors.New(errors.ErrConfigValid, "packages.search must not be empty")
	case len(cfg.Packages.Query) == 0:
		return errors.New(errors.ErrConfigValid, "packages.query must not be empty")
	case len(cfg.Packages.Install) == 0:
		return errors.New(errors.ErrConfigValid, "packages.install must not be empty")
	case cfg.Exec.Timeout < 0:
		return errors.New(errors.ErrConfigValid, "exec.timeout must not be negative")
	}
	return nil
}
