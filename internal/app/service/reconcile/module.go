package reconcile

import "go.uber.org/fx"

// Module exposes the reconciliation handler via Fx.
var Module = fx.Options(
	fx.Provide(NewHandler),
)
