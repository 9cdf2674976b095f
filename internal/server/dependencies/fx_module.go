package dependencies

import (
	"context"

	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/log"
	"github.com/embedhub/embedhub/internal/query"
	"github.com/embedhub/embedhub/internal/secret"
	"github.com/embedhub/embedhub/internal/server/db"
	"github.com/embedhub/embedhub/internal/store"
)

var Module = fx.Module("dependencies",
	fx.Provide(log.New),
	fx.Provide(db.NewStore),
	fx.Provide(store.SystemClock),
	fx.Provide(query.NewEngine),
	fx.Provide(newCodec),
	fx.Invoke(func(lc fx.Lifecycle, st store.Store) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return st.Close()
			},
		})
	}),
)

func newCodec() *secret.Codec {
	return secret.NewCodec(nil)
}
