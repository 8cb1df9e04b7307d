package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/DSACMS/training-registry-client/pkg/circuitbreaker"
	"github.com/DSACMS/training-registry-client/pkg/dispatch"
	"github.com/DSACMS/training-registry-client/pkg/encryption"
	"github.com/DSACMS/training-registry-client/pkg/httprequest"
	"github.com/DSACMS/training-registry-client/pkg/registry"
	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

// StatusFor maps an error from the registry packages to an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	var netErr *dispatch.NetworkError

	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, registry.ErrUnknownOperation):
		return fiber.StatusNotFound
	case errors.Is(err, ri.ErrInvalid):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, registry.ErrMissingParam),
		errors.Is(err, registry.ErrUnknownParam),
		errors.Is(err, registry.ErrNoInfo),
		errors.Is(err, ri.ErrNotInSet),
		errors.Is(err, httprequest.ErrInvalidHeader),
		errors.Is(err, httprequest.ErrInvalidParam),
		errors.Is(err, encryption.ErrInvalidPadding),
		errors.Is(err, encryption.ErrBlockSize):
		return fiber.StatusBadRequest
	case errors.Is(err, encryption.ErrNoKey),
		errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, dispatch.ErrDecrypt), errors.As(err, &netErr):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// errorBody is the JSON shape of every failed form API call.
type errorBody struct {
	Error    string     `json:"error"`
	Category string     `json:"category,omitempty"`
	Hint     string     `json:"hint,omitempty"`
	Result   *ri.Result `json:"result,omitempty"`
}

func fail(c *fiber.Ctx, err error, result *ri.Result) error {
	body := errorBody{Error: err.Error(), Result: result}

	var netErr *dispatch.NetworkError
	if errors.As(err, &netErr) {
		body.Category = string(netErr.Category)
		body.Hint = netErr.Hint
	}
	return c.Status(StatusFor(err)).JSON(body)
}

func badRequest(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}
