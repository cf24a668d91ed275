package standalone

import "github.com/funcgate/funcgate/internal/server"

type Config struct {
	// HTTPConfig represents the configuration for the HTTP server.
	HTTPConfig server.HTTPConfig `conf:",squash"`
}
