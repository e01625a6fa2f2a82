package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"strings"

	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/logging"
	"github.com/arthur-debert/dotsetup/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix starts every environment variable dotsetup reads.
const EnvPrefix = "DOTSETUP_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Sources names the layers above the embedded defaults. Empty paths and
// missing files are skipped.
type Sources struct {
	UserConfig string
	RepoConfig string
	EnvFile    string
	// Overrides are applied last, typically flags the user set explicitly.
	Overrides map[string]interface{}
}

// SourcesFor returns the standard file locations for a repository.
func SourcesFor(p paths.Paths) Sources {
	return Sources{
		UserConfig: p.UserConfigPath(),
		RepoConfig: p.RepoConfigPath(),
		EnvFile:    p.EnvFilePath(),
	}
}

// Default returns the embedded defaults alone.
func Default() *Config {
	cfg, err := Load(Sources{})
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load merges all layers and decodes the result.
func Load(src Sources) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User and repository TOML files
	for _, path := range []string{src.UserConfig, src.RepoConfig} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 3. Repository .env file
	if src.EnvFile != "" {
		if _, err := os.Stat(src.EnvFile); err == nil {
			values, err := godotenv.Read(src.EnvFile)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to read %s", src.EnvFile).
					WithDetail("path", src.EnvFile)
			}
			if err := k.Load(confmap.Provider(fromEnvFile(values), "."), nil); err != nil {
				return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load .env values")
			}
			logger.Debug().Str("path", src.EnvFile).Msg("Loaded env file")
		}
	}

	// 4. Process environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Explicit overrides
	if len(src.Overrides) > 0 {
		if err := k.Load(confmap.Provider(src.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				trimStringHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if _, err := cfg.Options(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid configuration")
	}
	return &cfg, nil
}

// envKey maps DOTSETUP_DRY_RUN to dry_run.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func fromEnvFile(values map[string]string) map[string]interface{} {
	out := make(map[string]interface{})
	for key, value := range values {
		if strings.HasPrefix(key, EnvPrefix) {
			out[envKey(key)] = value
		}
	}
	return out
}
