package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	redisLocal "github.com/DSACMS/training-registry-client/pkg/redis"
)

// GetStatus returns 200 while the service is healthy. When breaker state is
// kept in redis, redis must answer a ping.
func GetStatus(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil {
			return c.SendStatus(fiber.StatusOK)
		}

		err := redisLocal.Ping(c.UserContext(), rdb)
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "redis unavailable")
		}
		return c.SendStatus(fiber.StatusOK)
	}
}
