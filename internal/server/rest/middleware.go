package rest

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/finsync/internal/common"
	"github.com/dmitrijs2005/finsync/internal/logging"
	"github.com/dmitrijs2005/finsync/internal/server/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	RayIDHeader = "X-Ray-ID"

	localRayID  = "ray_id"
	localUserID = "user_id"
)

// rayIDMiddleware keeps an incoming X-Ray-ID or mints a new one, echoes it
// back and attaches it to the request's logging context.
func rayIDMiddleware(c *fiber.Ctx) error {
	rid := c.Get(RayIDHeader)
	if rid == "" {
		rid = uuid.NewString()
	}
	c.Locals(localRayID, rid)
	c.Set(RayIDHeader, rid)
	c.SetUserContext(logging.ContextWith(c.UserContext(), "ray_id", rid))
	return c.Next()
}

// loggingMiddleware resolves handler errors through the app's error handler
// so the logged status is the one the client sees.
func (s *HTTPServer) loggingMiddleware(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
		s.logger.Warn(c.UserContext(), "request error", "error", err)
	}

	s.logger.Info(c.UserContext(), "http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"ip", c.IP(),
		"duration", time.Since(start),
	)
	return nil
}

func (s *HTTPServer) authMiddleware(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return fiber.NewError(fiber.StatusUnauthorized, "token expired")
		}
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	c.Locals(localUserID, userID)
	c.SetUserContext(logging.ContextWith(c.UserContext(), "user_id", userID))
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	scheme, token, found := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if found && strings.EqualFold(scheme, common.BearerScheme) {
		return strings.TrimSpace(token)
	}
	return c.Get(common.AccessTokenHeaderName)
}

func userIDFrom(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(localUserID).(string)
	return id, ok && id != ""
}
