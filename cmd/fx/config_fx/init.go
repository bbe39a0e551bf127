package config_fx

import (
	"go.uber.org/fx"

	"homematch/internal/config"
)

var Module = fx.Provide(config.Load)
