package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"servicepro/internal/domain"
)

// tokenExpired reports whether token is a JWT whose exp claim lies before
// now. The signature is not checked; only the backend can do that. Opaque
// tokens and JWTs without exp never count as expired.
func tokenExpired(token domain.Token, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token.String(), jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
