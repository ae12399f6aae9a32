package token

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSteamID uint64 = 76561198000000001

func makeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"EdDSA","typ":"JWT"}`))
	body, err := json.Marshal(claims)
	require.NoError(t, err)
	payload := base64.RawURLEncoding.EncodeToString(body)
	sig := base64.RawURLEncoding.EncodeToString([]byte("sig"))
	return header + "." + payload + "." + sig
}

func TestParse(t *testing.T) {
	exp := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	raw := makeToken(t, map[string]interface{}{
		"iss": "steam",
		"sub": "steamid:76561198000000001",
		"aud": []string{"client", "web"},
		"exp": exp.Unix(),
	})

	claims, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, testSteamID, claims.SteamID)
	assert.Equal(t, "steam", claims.Issuer)
	assert.Equal(t, []string{"client", "web"}, claims.Audience)
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestParseBareSubject(t *testing.T) {
	raw := makeToken(t, map[string]interface{}{
		"iss": "steam",
		"sub": "76561198000000001",
	})
	claims, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, testSteamID, claims.SteamID)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not-a-token")
	assert.Error(t, err)

	_, err = Parse(makeToken(t, map[string]interface{}{
		"iss": "steam",
		"sub": "steamid:not-a-number",
	}))
	assert.Error(t, err)
}

func TestSteamIDChecksIssuer(t *testing.T) {
	raw := makeToken(t, map[string]interface{}{
		"iss": "steam",
		"sub": "steamid:76561198000000001",
	})
	id, err := SteamID(raw)
	require.NoError(t, err)
	assert.Equal(t, testSteamID, id)

	foreign := makeToken(t, map[string]interface{}{
		"iss": "somewhere-else",
		"sub": "steamid:76561198000000001",
	})
	_, err = SteamID(foreign)
	assert.Error(t, err)
}

func TestHasAudience(t *testing.T) {
	raw := makeToken(t, map[string]interface{}{
		"iss": "steam",
		"sub": "steamid:76561198000000001",
		"aud": []string{"client"},
	})
	assert.True(t, HasAudience(raw, "client"))
	assert.False(t, HasAudience(raw, "web"))
	assert.False(t, HasAudience("not-a-token", "client"))
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	live := makeToken(t, map[string]interface{}{
		"iss": "steam",
		"sub": "steamid:76561198000000001",
		"exp": now.Add(time.Hour).Unix(),
	})
	stale := makeToken(t, map[string]interface{}{
		"iss": "steam",
		"sub": "steamid:76561198000000001",
		"exp": now.Add(-time.Hour).Unix(),
	})
	forever := makeToken(t, map[string]interface{}{
		"iss": "steam",
		"sub": "steamid:76561198000000001",
	})

	assert.False(t, IsExpired(live, now))
	assert.True(t, IsExpired(stale, now))
	assert.False(t, IsExpired(forever, now))
	assert.True(t, IsExpired("not-a-token", now))
}
