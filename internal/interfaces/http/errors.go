package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

type errorMapping struct {
	kind   error
	status int
	code   string
}

// Orden relevante: el primer kind que coincide con errors.Is gana.
var errorMappings = []errorMapping{
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrContention, fiber.StatusConflict, "CONTENTION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrStorageUnavailable, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
	{context.DeadlineExceeded, fiber.StatusServiceUnavailable, "TIMEOUT"},
	{context.Canceled, fiber.StatusServiceUnavailable, "CANCELED"},
}

// respondError traduce err a status + ErrorResponse. Los 5xx se registran en log.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code, msg := fiber.StatusInternalServerError, "INTERNAL", "error interno"
	for _, m := range errorMappings {
		if errors.Is(err, m.kind) {
			status, code, msg = m.status, m.code, domain.Message(err)
			break
		}
	}
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Msg("petición fallida")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", dto.DefaultPageLimit),
		Offset: c.QueryInt("offset", 0),
	}
	page.DefaultPage()
	return page
}
