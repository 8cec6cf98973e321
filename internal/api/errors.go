package api

import "github.com/gofiber/fiber/v3"

// ErrorResponse is the envelope for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendError writes the error envelope with the given status.
func SendError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: message})
}

func SendBadRequest(c fiber.Ctx, message string) error {
	return SendError(c, fiber.StatusBadRequest, message)
}

func SendNotFound(c fiber.Ctx, message string) error {
	return SendError(c, fiber.StatusNotFound, message)
}

func SendInternalError(c fiber.Ctx, err error) error {
	return SendError(c, fiber.StatusInternalServerError, err.Error())
}
