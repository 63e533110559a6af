package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/farmwise/internal/domain/auth"
	apperrors "github.com/yanqian/farmwise/pkg/errors"
)

var (
	errMissingBearer   = errors.New("missing authorization header")
	errMalformedBearer = errors.New("invalid authorization header")
)

// requireFarmer rejects requests without a valid access token and stores the
// farmer's claims on the context for the handlers.
func requireFarmer(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", err.Error(), nil))
			return
		}
		claims, err := svc.ValidateToken(c.Request.Context(), token)
		switch {
		case err == nil:
			setClaims(c, claims)
			c.Next()
		case apperrors.IsCode(err, apperrors.CodeInvalidToken):
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeInvalidToken, errMessage(err), err))
		default:
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, "auth_failed", errMessage(err), err))
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingBearer
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errMalformedBearer
	}
	return token, nil
}
