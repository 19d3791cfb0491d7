package profile

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newTestManager() Manager {
	v := viper.New()
	v.Set("default.admin.base-url", "http://localhost:3000/api/admin")
	v.Set("default.output", "text")
	v.Set("staging.admin.base-url", "https://staging.example.com/api/admin")
	return NewManager(v)
}

func TestGetProfiles(t *testing.T) {
	require.Equal(t, []string{"default", "staging"}, newTestManager().GetProfiles())
}

func TestGetProfile(t *testing.T) {
	m := newTestManager()

	p, err := m.GetProfile("staging")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"base-url": "https://staging.example.com/api/admin"}, p["admin"])

	_, err = m.GetProfile("prod")
	require.EqualError(t, err, `profile "prod" not found`)

	_, err = m.GetProfile(" ")
	require.Error(t, err)
}
