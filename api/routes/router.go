package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/DSACMS/training-registry-client/api/handlers"
	"github.com/DSACMS/training-registry-client/api/middleware"
	"github.com/DSACMS/training-registry-client/pkg/registry"
)

func RegisterRoutes(app fiber.Router, client *registry.Client, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	api := app.Group("/api")

	api.Get("/lookups", handlers.ListLookups())
	api.Get("/lookups/:table", handlers.GetLookup())

	ops := api.Group("/operations")
	ops.Get("/", handlers.ListOperations())
	ops.Get("/:name", handlers.DescribeOperation(client))
	ops.Post("/:name/validate", handlers.ValidateOperation(client))
	ops.Post("/:name/preview", handlers.PreviewOperation(client))
	ops.Post("/:name/submit", middleware.RequireScope(middleware.ScopeSubmit), handlers.SubmitOperation(client, logger))

	api.Post("/cipher/encrypt", handlers.Encrypt(client.Cipher()))
	api.Post("/cipher/decrypt", middleware.RequireScope(middleware.ScopeSubmit), handlers.Decrypt(client.Cipher()))
}
