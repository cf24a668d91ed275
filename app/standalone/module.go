package standalone

import (
	"go.uber.org/fx"

	"github.com/funcgate/funcgate/handler"
	"github.com/funcgate/funcgate/internal/server"
	"github.com/funcgate/funcgate/util/logging"
)

func Module(config Config) fx.Option {
	return fx.Module(
		"serve",
		// rename logger for module
		logging.DecorateLogger("serve"),
		// provide handlers
		handler.Module(),
		// provide server
		server.Module(config.HTTPConfig),
	)
}
