package http

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/estate-service/internal/config"
	"github.com/spec-kit/estate-service/internal/observability"
)

// NewApp builds the fiber application with the global middleware stack.
// Routes are registered separately with RegisterRoutes.
func NewApp(cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		UnescapePath: true,
		Immutable:    true,
		ErrorHandler: ErrorHandler(logger, metrics),
	})
	RegisterMiddlewares(app, logger, metrics, cfg)
	return app
}
