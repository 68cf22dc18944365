package kit

import "go.uber.org/zap"

// NewLogger builds a JSON production logger tagged with the service name.
// Local environments get the human-readable development encoder instead.
func NewLogger(service, env string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.InitialFields = map[string]any{"service": service}
	l, _ := cfg.Build()
	return l
}
