package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenHeader = "x-amzn-oidc-accesstoken"

type CognitoConfig struct {
	Region     string
	UserPoolID string
	ClientID   string
}

// CognitoVerifier checks the operator's access token on every form API call.
type CognitoVerifier struct {
	issuer  string
	jwksURL string
	cache   *jwk.Cache
	cfg     CognitoConfig
}

func NewCognitoVerifier(cfg CognitoConfig) (*CognitoVerifier, error) {
	if cfg.Region == "" {
		return nil, errors.New("region is required")
	}

	if cfg.UserPoolID == "" {
		return nil, errors.New("user pool id is required")
	}

	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", cfg.Region, cfg.UserPoolID)
	return NewCognitoVerifierWithURLs(cfg, issuer, issuer+"/.well-known/jwks.json")
}

// NewCognitoVerifierWithURLs points the verifier at an explicit issuer and
// key set, for tests and non-AWS identity providers.
func NewCognitoVerifierWithURLs(cfg CognitoConfig, issuer, jwksURL string) (*CognitoVerifier, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client id is required")
	}

	if issuer == "" {
		return nil, errors.New("issuer is required")
	}

	if jwksURL == "" {
		return nil, errors.New("jwks url is required")
	}

	cache := jwk.NewCache(context.Background())
	err := cache.Register(jwksURL, jwk.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	if err != nil {
		return nil, fmt.Errorf("register jwks url: %w", err)
	}

	return &CognitoVerifier{
		issuer:  issuer,
		jwksURL: jwksURL,
		cache:   cache,
		cfg:     cfg,
	}, nil
}

func (v *CognitoVerifier) FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(tokenHeader)
		if raw == "" {
			return fiber.ErrUnauthorized
		}

		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		keyset, err := v.cache.Get(ctx, v.jwksURL)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unable to load jwks")
		}

		tok, err := jwt.Parse(
			[]byte(raw),
			jwt.WithKeySet(keyset),
			jwt.WithValidate(true),
			jwt.WithIssuer(v.issuer),
			jwt.WithClaimValue("token_use", "access"),
		)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		// access tokens carry the app client in "client_id"
		if cid, ok := tok.Get("client_id"); !ok || cid != v.cfg.ClientID {
			return fiber.ErrUnauthorized
		}

		c.Locals(operatorKey, operatorFromToken(tok))

		return c.Next()
	}
}
