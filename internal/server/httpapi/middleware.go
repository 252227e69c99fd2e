package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/auth"
)

// identityCtxKey is the echo context key holding the authenticated caller's
// identity.
const identityCtxKey = "identity"

// requireIdentity verifies the bearer token issued by the external identity
// provider and stores the identity on the request context. The gateway
// trusts the identity string inside a valid token; everything else about
// the session is the provider's problem.
func (s *Server) requireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(common.AuthHeaderName)
		if header == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing token"})
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, common.AuthScheme) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header"})
		}

		identity, err := auth.GetIdentityFromToken(token, s.jwtSecret)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": common.ErrInvalidToken.Error()})
		}

		c.Set(identityCtxKey, identity)
		return next(c)
	}
}

func requesterIdentity(c echo.Context) (string, bool) {
	identity, ok := c.Get(identityCtxKey).(string)
	return identity, ok && identity != ""
}
