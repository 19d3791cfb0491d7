package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/castlekeep/castlectl/internal/admin/helpers"
	"github.com/castlekeep/castlectl/internal/config"
	"github.com/castlekeep/castlectl/internal/resources"
)

// AdminSession is what a verb needs to call the admin API.
type AdminSession struct {
	Config config.Hook
	Logger *slog.Logger
	Admin  helpers.AdminAPI
}

// PrepareAdmin resolves the configuration, the logger and the admin client.
func PrepareAdmin(helper Helper) (*AdminSession, error) {
	cfg, err := helper.GetConfig()
	if err != nil {
		return nil, err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return nil, err
	}
	admin, err := helper.GetAdminAPI(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &AdminSession{Config: cfg, Logger: logger, Admin: admin}, nil
}

// PageSize returns the configured page size, rejecting values below one.
func (s *AdminSession) PageSize() (int, error) {
	size := s.Config.GetIntOrElse(config.AdminPageSizeConfigPath, config.DefaultPageSize)
	if size < 1 {
		return 0, &ConfigurationError{Err: fmt.Errorf("page size must be at least 1, got %d", size)}
	}
	return size, nil
}

// RequireResource looks name up and checks that it supports action.
func RequireResource(name string, action resources.Action) (resources.Resource, error) {
	res, ok := resources.Lookup(name)
	if !ok {
		return resources.Resource{}, &ConfigurationError{
			Err: fmt.Errorf("unknown resource %q, must be one of %s", name, strings.Join(resources.Names(), ", ")),
		}
	}
	if err := res.Require(action); err != nil {
		return resources.Resource{}, &ConfigurationError{Err: err}
	}
	return res, nil
}
