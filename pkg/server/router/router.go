package router

import "github.com/gofiber/fiber/v2"

// ServerRouter mounts one group of routes onto the engine's fiber app. The
// API server applies every configured router before it starts listening.
type ServerRouter interface {
	BuildRoutes(router *fiber.App) error
}
