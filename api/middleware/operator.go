package middleware

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ScopeSubmit lets an operator send requests to the registry and decrypt
// its payloads.
const ScopeSubmit = "registry/submit"

const operatorKey = "operator"

// Operator is the authenticated caller of the form API.
type Operator struct {
	Subject  string   `json:"sub"`
	Username string   `json:"username"`
	Scopes   []string `json:"scopes"`
	Groups   []string `json:"groups"`
}

func (o Operator) HasScope(scope string) bool {
	return slices.Contains(o.Scopes, scope)
}

func operatorFromToken(tok jwt.Token) Operator {
	op := Operator{Subject: tok.Subject()}

	if v, ok := tok.Get("username"); ok {
		op.Username, _ = v.(string)
	}
	if v, ok := tok.Get("scope"); ok {
		if s, ok := v.(string); ok {
			op.Scopes = strings.Fields(s)
		}
	}
	if v, ok := tok.Get("cognito:groups"); ok {
		switch groups := v.(type) {
		case []string:
			op.Groups = groups
		case []any:
			for _, g := range groups {
				if s, ok := g.(string); ok {
					op.Groups = append(op.Groups, s)
				}
			}
		}
	}
	return op
}

// OperatorFrom returns the operator stored by the verifier. It reports false
// when authentication is skipped.
func OperatorFrom(c *fiber.Ctx) (Operator, bool) {
	op, ok := c.Locals(operatorKey).(Operator)
	return op, ok
}

// RequireScope rejects operators without scope. Requests without an operator
// pass, since they only exist when authentication is skipped.
func RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		op, ok := OperatorFrom(c)
		if ok && !op.HasScope(scope) {
			return fiber.NewError(fiber.StatusForbidden, "missing scope "+scope)
		}
		return c.Next()
	}
}
