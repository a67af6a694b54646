package gateway

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Provide(NewDocument),
	fx.Invoke(RegisterRoutes),
)

// LocalModule serves the gateway from the in-process coordinator.
var LocalModule = fx.Options(
	fx.Provide(fx.Annotate(NewLocalIssuer, fx.As(new(Issuer)))),
)
