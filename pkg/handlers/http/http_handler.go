package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Scoring
	AnalyzeHandler      Handler
	BatchAnalyzeHandler Handler

	// Introspection
	ListRulesHandler  Handler
	GetStatsHandler   Handler
	HealthHandler     Handler
	GetVersionHandler Handler

	// Admin
	InvalidateCacheHandler Handler
}
