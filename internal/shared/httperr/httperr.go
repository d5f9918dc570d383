// Package httperr maps content and regeneration errors to fiber errors.
package httperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"backend-tripgallery/internal/content"
	"backend-tripgallery/internal/pipeline"
)

func From(err error) error {
	var partial *pipeline.PartialFailure
	switch {
	case err == nil:
		return nil
	case errors.Is(err, content.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, content.ErrExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, content.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.As(err, &partial):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
