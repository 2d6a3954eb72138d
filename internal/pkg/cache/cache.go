// Package cache provides the shared Redis-backed storage used by
// cross-instance concerns like rate limiting. When no cache host is
// configured the application falls back to per-instance memory.
package cache

import (
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	redisstorage "github.com/gofiber/storage/redis/v3"

	"github.com/quizhub/quizhub/internal/pkg/env"
)

var (
	once    sync.Once
	storage fiber.Storage
)

// Storage returns the shared Redis storage, or nil when CACHE_HOST is
// not configured. The connection is created on first use.
func Storage() fiber.Storage {
	once.Do(func() {
		host := env.GetEnv("CACHE_HOST", "")
		if host == "" {
			return
		}

		port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
		if err != nil {
			port = 6379
		}

		storage = redisstorage.New(redisstorage.Config{
			Host:     host,
			Port:     port,
			Password: env.GetEnv("CACHE_PASSWORD", ""),
			Database: 1,
		})
	})
	return storage
}
