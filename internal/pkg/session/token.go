package session

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/code"
)

const bearerPrefix = "Bearer "

// Token is the full authorization value, "Bearer " prefix included, so it can be
// passed verbatim as the Authorization header.
type Token string

func (t Token) Header() string { return string(t) }

// Value is the opaque part after the prefix.
func (t Token) Value() string {
	return strings.TrimPrefix(string(t), bearerPrefix)
}

// Claims decodes the payload without checking the signature; the harness never
// holds the API's key. Only useful for logging the subject and expiry.
func (t Token) Claims() (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.Value(), claims); err != nil {
		return nil, errors.WrapC(err, code.ErrUnexpectedResponse, "token is not a JWT")
	}
	return claims, nil
}
