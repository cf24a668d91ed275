package server

import "go.uber.org/fx"

func Module(config HTTPConfig) fx.Option {
	return fx.Module("server",
		// provide config
		fx.Supply(config),
		// provide server
		fx.Provide(NewLifecycleServer),
		// invoke server
		fx.Invoke(func(*HTTPServer) {}),
	)
}
