package middleware

import (
	"context"

	"github.com/RakshakAI/ScamShield/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type requestIDMiddleware struct {
	logger *logrus.Logger
}

// NewRequestIDMiddleware tags every request with an id. A caller-supplied
// X-Request-Id is honored so the extension can correlate its own traces;
// otherwise a fresh uuid is minted.
func NewRequestIDMiddleware(logger *logrus.Logger) Middleware {
	return &requestIDMiddleware{logger: logger}
}

func (m *requestIDMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := ctx.Get(common.RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		ctx.Locals(string(common.RequestIdContextKey), id)
		ctx.Set(common.RequestIDHeader, id)

		c := context.WithValue(ctx.UserContext(), common.RequestIdContextKey, id)
		ctx.SetUserContext(c)
		return ctx.Next()
	}
}
