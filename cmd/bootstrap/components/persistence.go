package components

import (
	"coupon-service/internal/infra/readstore"
	"coupon-service/internal/infra/writerepo"
	"coupon-service/internal/usecase/queries"
	"coupon-service/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			readstore.NewCouponReadStore,
			fx.As(new(shared.CouponReadStore)),
			fx.As(new(queries.CouponViewRepo)),
		),
		fx.Annotate(
			writerepo.NewCouponWriteRepository,
			fx.As(new(shared.CouponWriteRepository)),
		),
	),
)
