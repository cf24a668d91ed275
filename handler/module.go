package handler

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("handler",
		fx.Provide(NewHTTPHandler),
		fx.Provide(NewEventHandler),
		fx.Provide(NewFunctionRoute),
		fx.Provide(NewEventRoute),
		fx.Provide(NewHealthRoute),
		fx.Provide(NewMetricsRoute),
	)
}
