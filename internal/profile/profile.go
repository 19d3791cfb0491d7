// Package profile reads the named sections of the configuration file.
package profile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultProfile = "default"
)

type Manager interface {
	// GetProfiles returns the profile names in the configuration file, sorted.
	GetProfiles() []string
	GetProfile(name string) (map[string]any, error)
}

type profileManager struct {
	config *viper.Viper
}

// Empty type to represent the _type_ Manager. Genesis is to support a key in a Context
type Key struct{}

// Global instance of the ProfileManagerKey type
var ProfileManagerKey = Key{}

func (v *profileManager) GetProfiles() []string {
	var names []string
	for _, key := range v.config.AllKeys() {
		top, _, _ := strings.Cut(key, ".")
		if !slices.Contains(names, top) {
			names = append(names, top)
		}
	}
	slices.Sort(names)
	return names
}

func (v *profileManager) GetProfile(name string) (map[string]any, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("invalid profile name (empty)")
	}
	if !slices.Contains(v.GetProfiles(), name) {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return v.config.GetStringMap(name), nil
}

func NewManager(config *viper.Viper) Manager {
	return &profileManager{
		config: config,
	}
}
