package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/DSACMS/training-registry-client/api/handlers"
)

// StatusRouter mounts the liveness and health checks, ahead of any auth. rdb
// may be nil when no breaker state is shared.
func StatusRouter(app fiber.Router, rdb *redis.Client) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/status", handlers.GetStatus(rdb))
}
