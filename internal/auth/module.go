package auth

import (
	"github.com/ubounty/ubounty-cli/internal/config"
	"go.uber.org/fx"
)

// Module provides the auth dependencies
var Module = fx.Module("auth",
	fx.Provide(
		func() *Store { return NewStore(config.CredentialsPath()) },
		NewDefaultDeviceFlow,
		fx.Annotate(
			NewTerminalReporter,
			fx.As(new(Reporter)),
		),
		fx.Annotate(
			NewTerminalConfirmer,
			fx.As(new(Confirmer)),
		),
		NewAuthenticator,
	),
)
