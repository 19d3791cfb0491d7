package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/castlekeep/castlectl/internal/meta"
	"github.com/castlekeep/castlectl/internal/util/viper"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

const defaultConfigFileName = "config.yaml"

// Config paths shared by the CLI verbs and the console.
const (
	OutputConfigPath     = "output"
	LogLevelConfigPath   = "log-level"
	LogFileConfigPath    = "log-file"
	ColorConfigPath      = "color"
	ColorThemeConfigPath = "color-theme"

	AdminBaseURLConfigPath  = "admin.base-url"
	AdminTokenConfigPath    = "admin.token"
	AdminPageSizeConfigPath = "admin.page-size"
	AdminTimeoutConfigPath  = "admin.timeout"

	DefaultPageSize = 20
	DefaultTimeout  = 30 * time.Second
)

var ErrConfigFileNotFound = errors.New("the provided config file path does not exist")

// GetDefaultConfigPath returns $XDG_CONFIG_HOME/castlectl, falling back to
// ~/.config/castlectl when XDG_CONFIG_HOME is unset.
func GetDefaultConfigPath() (string, error) {
	val, set := os.LookupEnv("XDG_CONFIG_HOME")
	if !set || val == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		val = filepath.Join(home, ".config")
	}
	return os.ExpandEnv(filepath.Join(val, meta.CLIName)), nil
}

func GetDefaultConfigFilePath() (string, error) {
	dir, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultConfigFileName), nil
}

// GetConfig loads the configuration for profile. A file the user points at must
// exist. The default file is created with defaults on first use.
func GetConfig(path string, profile string, defaultConfigFilePath string) (*ProfiledConfig, error) {
	path = os.ExpandEnv(path)

	if _, statErr := os.Stat(path); statErr == nil {
		vip, err := viper.NewViperE(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		return BuildProfiledConfig(profile, path, vip), nil
	}

	if path != defaultConfigFilePath {
		return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
	}

	vip, err := viper.InitializeDefaultViper(getDefaultConfig(profile, path), path)
	if err != nil {
		return nil, fmt.Errorf("initializing config file %s: %w", path, err)
	}
	return BuildProfiledConfig(profile, path, vip), nil
}

type Key struct{}

// ConfigKey stores the active Hook in a command context
var ConfigKey = Key{}

// Hook narrows viper to what commands need and scopes every key to the
// active profile.
type Hook interface {
	Save() error
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetIntOrElse(key string, orElse int) int
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	SetString(key string, value string)
	Set(k string, v any)
	Get(key string) any
	// BindFlag makes the flag value take precedence over configPath when set
	BindFlag(configPath string, f *pflag.Flag) error
	GetProfile() string
	GetPath() string
}

// ProfiledConfig is the whole config file plus a view of one profile section.
type ProfiledConfig struct {
	*v.Viper
	subViper    *v.Viper
	ProfileName string
	Path        string
}

func (p *ProfiledConfig) GetProfile() string { return p.ProfileName }

func (p *ProfiledConfig) GetPath() string { return p.Path }

// Save writes the profile section back into the main file.
func (p *ProfiledConfig) Save() error {
	p.Viper.Set(p.ProfileName, p.subViper.AllSettings())
	return p.WriteConfig()
}

func (p *ProfiledConfig) Get(key string) any { return p.subViper.Get(key) }

func (p *ProfiledConfig) GetString(key string) string { return p.subViper.GetString(key) }

func (p *ProfiledConfig) GetBool(key string) bool { return p.subViper.GetBool(key) }

func (p *ProfiledConfig) GetInt(key string) int { return p.subViper.GetInt(key) }

func (p *ProfiledConfig) GetIntOrElse(key string, orElse int) int {
	if p.subViper.IsSet(key) {
		return p.subViper.GetInt(key)
	}
	return orElse
}

func (p *ProfiledConfig) GetDuration(key string) time.Duration {
	return p.subViper.GetDuration(key)
}

func (p *ProfiledConfig) GetStringSlice(key string) []string {
	return p.subViper.GetStringSlice(key)
}

func (p *ProfiledConfig) BindFlag(configPath string, f *pflag.Flag) error {
	if f == nil {
		return fmt.Errorf("cannot bind %s: flag not found", configPath)
	}
	return p.subViper.BindPFlag(configPath, f)
}

func (p *ProfiledConfig) SetString(k string, val string) { p.subViper.Set(k, val) }

func (p *ProfiledConfig) Set(k string, val any) { p.subViper.Set(k, val) }

// BuildProfiledConfig extracts the profile section from mainv. When the file
// has no such section an empty one is created which still resolves
// CASTLECTL_<PROFILE>_<KEY> environment variables.
func BuildProfiledConfig(profile string, path string, mainv *v.Viper) *ProfiledConfig {
	subv := mainv.Sub(profile)
	if subv == nil {
		subv = v.New()
		envPrefix := meta.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(profile, "-", "_"))
		viper.ConfigureEnvVars(subv, envPrefix)
	}
	subv.SetDefault(AdminBaseURLConfigPath, meta.DefaultAdminBaseURL)
	subv.SetDefault(AdminPageSizeConfigPath, DefaultPageSize)
	subv.SetDefault(AdminTimeoutConfigPath, DefaultTimeout.String())
	subv.SetDefault(OutputConfigPath, "text")
	subv.SetDefault(LogLevelConfigPath, "info")

	return &ProfiledConfig{
		Viper:       mainv,
		ProfileName: profile,
		subViper:    subv,
		Path:        path,
	}
}

func getDefaultConfig(profileName, configFilePath string) map[string]any {
	logPath := filepath.Join(filepath.Dir(configFilePath), "logs", meta.CLIName+".log")

	return map[string]any{
		profileName: map[string]any{
			OutputConfigPath:     "text",
			LogFileConfigPath:    logPath,
			ColorThemeConfigPath: "castle",
			"admin": map[string]any{
				"base-url":  meta.DefaultAdminBaseURL,
				"page-size": DefaultPageSize,
				"timeout":   DefaultTimeout.String(),
			},
		},
	}
}
