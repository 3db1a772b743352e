package rest

import (
	"errors"

	"github.com/dmitrijs2005/finsync/internal/common"
	"github.com/dmitrijs2005/finsync/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

func (s *HTTPServer) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleSync serves POST /sync/:collection with body {items, lastSync}.
func (s *HTTPServer) handleSync(c *fiber.Ctx) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	coll, err := models.ParseCollection(c.Params("collection"))
	if err != nil {
		return err
	}

	req, err := models.DecodeSyncRequest(c.Body())
	if err != nil {
		return err
	}

	resp, err := s.sync.Sync(c.UserContext(), userID, coll, req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (s *HTTPServer) handleDelete(c *fiber.Ctx) error {
	userID, ok := userIDFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	coll, err := models.ParseCollection(c.Params("collection"))
	if err != nil {
		return err
	}

	id := c.Params("id")
	if err := s.sync.Delete(c.UserContext(), userID, coll, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "deleted", "id": id})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code, msg := statusFor(err)
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, common.ErrUnknownCollection):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, common.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrorUnauthorized):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, common.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable, "storage unavailable"
	default:
		return fiber.StatusInternalServerError, "internal error"
	}
}
