package viper

import (
	"strings"

	"github.com/castlekeep/castlectl/internal/meta"
	"github.com/castlekeep/castlectl/internal/util"
	v "github.com/spf13/viper"
)

// InitializeDefaultViper loads path, seeding it with defaultValues and writing
// it back when the file is missing or empty.
func InitializeDefaultViper(defaultValues map[string]any, path string) (*v.Viper, error) {
	if err := util.InitDir(path, 0o755); err != nil {
		return nil, err
	}

	rv := NewViper(path)
	if len(rv.AllSettings()) > 0 {
		return rv, nil
	}

	if err := rv.MergeConfigMap(defaultValues); err != nil {
		return nil, err
	}
	if err := rv.WriteConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViperE strictly reads the file at path.
func NewViperE(path string) (*v.Viper, error) {
	rv := newViper(path)
	if err := rv.ReadInConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViper reads the file at path when present and otherwise starts empty.
func NewViper(path string) *v.Viper {
	rv := newViper(path)
	_ = rv.ReadInConfig()
	return rv
}

// ConfigureEnvVars lets vp resolve keys from environment variables named
// <prefix>_<KEY>, with "." and "-" in keys mapped to "_".
func ConfigureEnvVars(vp *v.Viper, prefix string) {
	vp.SetEnvPrefix(prefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vp.AutomaticEnv()
}

func newViper(path string) *v.Viper {
	rv := v.New()
	rv.SetConfigFile(path)
	ConfigureEnvVars(rv, strings.ToLower(meta.EnvPrefix))
	return rv
}
