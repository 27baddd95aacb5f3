package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/newsfeed/util"
)

// EnvPrefix marks environment variables meant for newsfeed. A prefixed
// variable wins over its unprefixed twin.
const EnvPrefix = "NEWSFEED_"

// maxEnvKeyParts bounds the nesting variants generated per variable.
const maxEnvKeyParts = 7

// FileSystem abstracts file lookups so the resolver can be tested.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

// Exists reports whether path exists.
func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file without overriding variables already set.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds the config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

var (
	configSearchPaths = []string{
		"./config.yml",
		"./config/config.yml",
		"./cmd/newsfeed/config.yml",
	}
	envSearchPaths = []string{
		"./.env",
		"./config/.env",
	}
)

// ResolveFiles returns the explicit paths when given, otherwise the first
// existing file of each search list.
func (r *Resolver) ResolveFiles(opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(configSearchPaths)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(envSearchPaths)
	}
	return resolved
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads the configuration, applies defaults and validates it.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(&cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig unmarshals the YAML file, the .env file and the environment
// into cfg, in that order of increasing precedence. An explicit config file
// that does not exist is an error.
func LoadConfig(cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}
	if lc.ConfigFile != "" && !lc.FileSystem.Exists(lc.ConfigFile) {
		return fmt.Errorf("config file %s not found", lc.ConfigFile)
	}

	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(lc)
	return loadFromResolvedFiles(cfg, files, lc.FileSystem)
}

func loadFromResolvedFiles(cfg any, files ResolvedFiles, fs FileSystem) error {
	v := viper.New()

	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
	}

	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", files.EnvFile, err)
		}
	}
	bindEnv(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// bindEnv sets every variable under all of its nested key variants.
// Unprefixed variables go first so NEWSFEED_ ones override them.
func bindEnv(v *viper.Viper, environ []string) {
	var prefixed [][2]string
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || key == "" {
			continue
		}
		if rest, found := strings.CutPrefix(key, EnvPrefix); found {
			if rest != "" {
				prefixed = append(prefixed, [2]string{rest, value})
			}
			continue
		}
		setVariants(v, key, value)
	}
	for _, kv := range prefixed {
		setVariants(v, kv[0], kv[1])
	}
}

func setVariants(v *viper.Viper, key, value string) {
	value = util.SanitizeEnvValue(value)
	for _, variant := range envKeyVariants(key) {
		v.Set(variant, value)
	}
}

// envKeyVariants returns every way to read KEY_PARTS as a nested key, with
// each underscore either a level separator or part of a name:
//
//	NEWSAPI_API_KEY -> newsapi_api_key, newsapi_api.key, newsapi.api_key, newsapi.api.key
func envKeyVariants(envKey string) []string {
	parts := strings.Split(strings.ToLower(envKey), "_")
	if slices.Contains(parts, "") {
		return nil
	}
	if len(parts) > maxEnvKeyParts {
		return []string{strings.Join(parts, "_")}
	}

	variants := []string{parts[0]}
	for _, p := range parts[1:] {
		next := make([]string, 0, len(variants)*2)
		for _, prefix := range variants {
			next = append(next, prefix+"_"+p, prefix+"."+p)
		}
		variants = next
	}
	return variants
}
