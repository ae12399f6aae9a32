package guardcode

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdefghij"))

func TestGenerateShape(t *testing.T) {
	code, err := Generate(testSecret, time.Unix(1700000000, 0))
	require.NoError(t, err)
	assert.Len(t, code, CodeLength)
	for _, c := range code {
		assert.True(t, strings.ContainsRune(alphabet, c), "unexpected character %q", c)
	}
}

func TestGenerateDeterministicWithinPeriod(t *testing.T) {
	base := time.Unix(1700000010, 0)
	a, err := Generate(testSecret, base)
	require.NoError(t, err)
	b, err := Generate(testSecret, base.Add(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateChangesAcrossPeriods(t *testing.T) {
	base := time.Unix(1700000000, 0)
	distinct := map[string]bool{}
	for i := 0; i < 10; i++ {
		code, err := Generate(testSecret, base.Add(time.Duration(i)*Period))
		require.NoError(t, err)
		distinct[code] = true
	}
	// Collisions are possible but ten consecutive identical codes are not.
	assert.Greater(t, len(distinct), 1)
}

func TestGenerateRejectsBadSecret(t *testing.T) {
	_, err := Generate("%%%not-base64%%%", time.Now())
	assert.Error(t, err)

	_, err = Generate("", time.Now())
	assert.Error(t, err)
}

func TestGenerateNow(t *testing.T) {
	before, err := Generate(testSecret, time.Now())
	require.NoError(t, err)
	now, err := GenerateNow(testSecret)
	require.NoError(t, err)
	after, err := Generate(testSecret, time.Now())
	require.NoError(t, err)
	// A period boundary may fall between the calls.
	assert.Contains(t, []string{before, after}, now)
}
