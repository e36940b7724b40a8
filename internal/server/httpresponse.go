package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/regscope/regscope/internal/analysis"
	"github.com/regscope/regscope/internal/store"
)

// envelope is the uniform response shape for every API endpoint
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// applySuccess writes a 200 envelope
func applySuccess(c *fiber.Ctx, data interface{}) error {
	return c.JSON(envelope{Success: true, Data: data})
}

// applyError writes an error envelope with the given status
func applyError(c *fiber.Ctx, status int, message string, err error) error {
	if err != nil {
		log.Errorf("%s: %v", message, err)
	}
	return c.Status(status).JSON(envelope{Success: false, Error: message})
}

// mapError distinguishes "data not fetched yet" from server faults. Missing
// fixtures and an empty analysis batch are the caller's 404; everything
// else is a 500.
func mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, analysis.ErrEmptyBatch) {
		return applyError(c, fiber.StatusNotFound, "Dataset not fetched yet; run a refresh first", err)
	}
	return applyError(c, fiber.StatusInternalServerError, "Unexpected error", err)
}
