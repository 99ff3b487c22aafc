package config

import "go.uber.org/fx"

// Module provides the config dependencies
var Module = fx.Module("config",
	fx.Provide(Load),
)
