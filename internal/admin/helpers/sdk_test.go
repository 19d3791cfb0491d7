package helpers

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/castlekeep/castlectl/internal/admin/api"
	"github.com/castlekeep/castlectl/internal/admin/apitest"
	"github.com/castlekeep/castlectl/internal/config"
	utilviper "github.com/castlekeep/castlectl/internal/util/viper"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, baseURL string) config.Hook {
	t.Helper()
	cfg := config.BuildProfiledConfig("default", "nonexistent.yaml", utilviper.NewViper("nonexistent.yaml"))
	cfg.SetString(config.AdminBaseURLConfigPath, baseURL)
	cfg.SetString(config.AdminTokenConfigPath, "tok")
	return cfg
}

func TestFactoryBuildsWorkingClient(t *testing.T) {
	srv := apitest.New(t)
	srv.Seed("focus-sessions", api.Record{"id": "s1"})

	factory := NewAdminAPIFactory("castlectl/test")
	adminAPI, err := factory(testConfig(t, srv.BaseURL()), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	page, err := adminAPI.GetFocusSessionsAPI().List(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	require.Equal(t, "Bearer tok", srv.Calls()[0].Auth)
}

func TestFactoryRejectsBadBaseURL(t *testing.T) {
	factory := NewAdminAPIFactory("")
	_, err := factory(testConfig(t, "ftp://nope"), nil)
	require.Error(t, err)

	_, err = factory(testConfig(t, " "), nil)
	require.Error(t, err)
}
