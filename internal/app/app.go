// Package app assembles the dependency graph shared by the CLI commands.
package app

import (
	"github.com/ubounty/ubounty-cli/internal/api"
	"github.com/ubounty/ubounty-cli/internal/auth"
	"github.com/ubounty/ubounty-cli/internal/config"
	"github.com/ubounty/ubounty-cli/internal/logger"
	"go.uber.org/fx"
)

// Module aggregates the per-package fx modules.
var Module = fx.Options(
	config.Module,
	auth.Module,
	api.Module,
	fx.Invoke(func(cfg *config.Config) error {
		return logger.InitLogger(&cfg.Logging)
	}),
)

// Runtime holds the dependencies commands pull out of the container.
// Components whose construction can legitimately fail depending on which
// command runs (GitHub client, agent) are built on demand instead.
type Runtime struct {
	fx.In

	Config *config.Config
	Store  *auth.Store
	Auth   *auth.Authenticator
	API    *api.Client
}

// Load builds the object graph and returns the populated Runtime.
func Load() (*Runtime, error) {
	var rt Runtime
	fxApp := fx.New(
		fx.NopLogger,
		Module,
		fx.Populate(&rt),
	)
	if err := fxApp.Err(); err != nil {
		return nil, err
	}
	return &rt, nil
}
