package api

import (
	"go.uber.org/fx"
)

// Module provides the HTTP handlers.
var Module = fx.Module("api",
	fx.Provide(
		NewAuthHandlers,
		NewSystemHandlers,
		NewUserHandlers,
		NewSpaceHandlers,
		NewEmbedderHandlers,
		NewAPIKeyHandlers,
	),
)
