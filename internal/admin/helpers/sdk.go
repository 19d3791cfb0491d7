package helpers

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/castlekeep/castlectl/internal/admin/api"
	"github.com/castlekeep/castlectl/internal/admin/httpclient"
	"github.com/castlekeep/castlectl/internal/config"
)

// AdminAPI groups the admin endpoints so commands and tests can swap the
// implementation.
type AdminAPI interface {
	GetUsersAPI() api.ResourceAPI
	GetFocusSessionsAPI() api.ResourceAPI
	GetCastleGroundsAPI() api.ResourceAPI
	GetDashboardAPI() api.DashboardAPI
}

// AdminClient is the HTTP backed AdminAPI.
type AdminClient struct {
	Client *api.Client
}

func (a *AdminClient) GetUsersAPI() api.ResourceAPI { return a.Client.Users() }

func (a *AdminClient) GetFocusSessionsAPI() api.ResourceAPI { return a.Client.FocusSessions() }

func (a *AdminClient) GetCastleGroundsAPI() api.ResourceAPI { return a.Client.CastleGrounds() }

func (a *AdminClient) GetDashboardAPI() api.DashboardAPI { return a.Client.Dashboard() }

// AdminAPIFactory builds an AdminAPI from the active configuration.
type AdminAPIFactory func(cfg config.Hook, logger *slog.Logger) (AdminAPI, error)

type Key struct{}

// AdminAPIFactoryKey stores the AdminAPIFactory in a command context
var AdminAPIFactoryKey = Key{}

// NewAdminAPIFactory returns the production factory. userAgent is sent with
// every request.
func NewAdminAPIFactory(userAgent string) AdminAPIFactory {
	return func(cfg config.Hook, logger *slog.Logger) (AdminAPI, error) {
		baseURL := strings.TrimSpace(cfg.GetString(config.AdminBaseURLConfigPath))
		if baseURL == "" {
			return nil, fmt.Errorf("no admin API base URL configured, set %s or pass --base-url", config.AdminBaseURLConfigPath)
		}
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			return nil, fmt.Errorf("invalid admin API base URL %q: must start with http:// or https://", baseURL)
		}

		doer := httpclient.NewLoggingHTTPClient(logger, cfg.GetDuration(config.AdminTimeoutConfigPath), userAgent)
		return &AdminClient{
			Client: api.NewClient(api.Options{
				BaseURL: baseURL,
				Token:   cfg.GetString(config.AdminTokenConfigPath),
				Doer:    doer,
			}),
		}, nil
	}
}
