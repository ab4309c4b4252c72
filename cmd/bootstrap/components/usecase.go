package components

import (
	"coupon-service/internal/pkg/clock"
	"coupon-service/internal/usecase/commands"
	"coupon-service/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewCouponCommands,
		queries.NewCouponQueries,
	),
)
