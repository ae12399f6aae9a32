package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuerSteam = "steam"

// Claims is the decoded, unverified payload of an issued token. Tokens are
// signed by the server; this package only inspects them, it does not vouch
// for them.
type Claims struct {
	SteamID   uint64
	Issuer    string
	Audience  []string
	ExpiresAt time.Time
}

// Parse decodes a token without signature verification and extracts the
// claims the engine cares about.
func Parse(raw string) (*Claims, error) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims := &Claims{}
	if iss, err := parsed.Claims.GetIssuer(); err == nil {
		claims.Issuer = iss
	}
	if aud, err := parsed.Claims.GetAudience(); err == nil {
		claims.Audience = aud
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("token has no subject: %w", err)
	}
	claims.SteamID, err = parseSteamID(sub)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// SteamID extracts the account identifier from a refresh or access token,
// checking that the token was actually minted for this login flow.
func SteamID(raw string) (uint64, error) {
	claims, err := Parse(raw)
	if err != nil {
		return 0, err
	}
	if claims.Issuer != issuerSteam {
		return 0, fmt.Errorf("unexpected token issuer %q", claims.Issuer)
	}
	return claims.SteamID, nil
}

// HasAudience reports whether the token was issued for the given audience,
// e.g. "client" or "web".
func HasAudience(raw, audience string) bool {
	claims, err := Parse(raw)
	if err != nil {
		return false
	}
	for _, aud := range claims.Audience {
		if aud == audience {
			return true
		}
	}
	return false
}

// IsExpired reports whether the token's exp claim has passed. A token with
// no expiry is never expired.
func IsExpired(raw string, now time.Time) bool {
	claims, err := Parse(raw)
	if err != nil {
		return true
	}
	if claims.ExpiresAt.IsZero() {
		return false
	}
	return now.After(claims.ExpiresAt)
}

// parseSteamID accepts both the "steamid:765..." subject form and a bare id.
func parseSteamID(sub string) (uint64, error) {
	sub = strings.TrimPrefix(sub, "steamid:")
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse steam id from subject %q: %w", sub, err)
	}
	return id, nil
}
