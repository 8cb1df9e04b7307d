package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/DSACMS/training-registry-client/api/middleware"
	"github.com/DSACMS/training-registry-client/pkg/registry"
	ri "github.com/DSACMS/training-registry-client/pkg/requestinfo"
)

const submitTimeout = 60 * time.Second

// envelope is the body of every validate, preview and submit call.
type envelope struct {
	Path  map[string]string `json:"path"`
	Query map[string]any    `json:"query"`
	Info  json.RawMessage   `json:"info"`
}

func decodeSubmission(c *fiber.Ctx, client *registry.Client) (registry.Submission, error) {
	op, err := registry.Lookup(c.Params("name"))
	if err != nil {
		return registry.Submission{}, fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	var env envelope
	if body := c.Body(); len(bytes.TrimSpace(body)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&env); err != nil {
			return registry.Submission{}, badRequest(fmt.Errorf("decode envelope: %w", err))
		}
	}

	info, err := registry.Decode(op, client.UEN(), env.Info)
	if err != nil {
		return registry.Submission{}, badRequest(err)
	}

	return registry.Submission{
		Operation: op.Name,
		Path:      env.Path,
		Query:     env.Query,
		Info:      info,
	}, nil
}

func ListOperations() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(registry.Operations())
	}
}

// DescribeOperation returns the catalog entry together with an empty request
// info, prefilled where the entity has defaults, as a template for the form.
func DescribeOperation(client *registry.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		op, err := registry.Lookup(c.Params("name"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}

		return c.JSON(fiber.Map{
			"operation":  op,
			"pathParams": op.PathParams(),
			"info":       op.NewInfo(client.UEN()),
		})
	}
}

// ValidateOperation reports errors and warnings without building a request.
func ValidateOperation(client *registry.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sub, err := decodeSubmission(c, client)
		if err != nil {
			return err
		}

		result := ri.Result{Errors: []string{}, Warnings: []string{}}
		if sub.Info != nil {
			result = sub.Info.Validate()
		}
		return c.JSON(result)
	}
}

func PreviewOperation(client *registry.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sub, err := decodeSubmission(c, client)
		if err != nil {
			return err
		}

		preview, err := client.Preview(sub)
		if err != nil {
			return fail(c, err, resultOf(err, preview.Result))
		}
		return c.JSON(preview)
	}
}

func SubmitOperation(client *registry.Client, logger *slog.Logger) fiber.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *fiber.Ctx) error {
		sub, err := decodeSubmission(c, client)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), submitTimeout)
		defer cancel()

		log := logger.With(slog.String("operation", sub.Operation))
		if op, ok := middleware.OperatorFrom(c); ok {
			log = log.With(slog.String("operator", op.Username))
		}

		submitted, err := client.Submit(ctx, sub)
		if err != nil {
			if !errors.Is(err, ri.ErrInvalid) {
				log.ErrorContext(ctx, "submission failed", slog.Any("error", err))
			}
			if submitted.Outcome.Status != 0 {
				return c.Status(StatusFor(err)).JSON(fiber.Map{
					"error":   err.Error(),
					"result":  submitted.Result,
					"outcome": submitted.Outcome,
				})
			}
			return fail(c, err, resultOf(err, submitted.Result))
		}

		log.InfoContext(ctx, "submission sent",
			slog.Int("status", submitted.Outcome.Status),
			slog.String("class", submitted.Outcome.Class.String()),
		)
		return c.JSON(submitted)
	}
}

func resultOf(err error, result ri.Result) *ri.Result {
	if errors.Is(err, ri.ErrInvalid) {
		return &result
	}
	return nil
}
