package metrics_fx

import (
	"go.uber.org/fx"

	"homematch/internal/infra"
)

var Module = fx.Provide(infra.NewMetrics)
