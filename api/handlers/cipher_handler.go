package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/DSACMS/training-registry-client/pkg/encryption"
)

type cipherRequest struct {
	Text string `json:"text"`
}

type cipherResponse struct {
	Text string `json:"text"`
}

// Encrypt and Decrypt expose the payload cipher for checking encrypted
// bodies by hand. Neither logs the text.
func Encrypt(cipher *encryption.Cipher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req cipherRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(err)
		}

		out, err := cipher.EncryptString(req.Text)
		if err != nil {
			return fail(c, err, nil)
		}
		return c.JSON(cipherResponse{Text: out})
	}
}

func Decrypt(cipher *encryption.Cipher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req cipherRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(err)
		}
		if strings.TrimSpace(req.Text) == "" {
			return badRequest(errors.New("text is required"))
		}

		out, err := cipher.DecryptString(strings.TrimSpace(req.Text))
		if err != nil {
			if errors.Is(err, encryption.ErrNoKey) {
				return fail(c, err, nil)
			}
			return fiber.NewError(fiber.StatusBadRequest, "could not decrypt: "+err.Error())
		}
		return c.JSON(cipherResponse{Text: string(out)})
	}
}
