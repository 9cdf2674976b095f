package biz

import (
	"go.uber.org/fx"
)

// Module provides the resource services.
var Module = fx.Module("biz",
	fx.Provide(
		NewPermissionValidator,
		NewAuthService,
		NewUserService,
		NewSpaceService,
		NewEmbedderService,
		NewAPIKeyService,
	),
)
