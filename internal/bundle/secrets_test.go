package bundle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"extbuild/internal/buildcfg"
)

var testSecrets = buildcfg.Secrets{
	ClientID:     "client-id",
	ClientSecret: "client-secret",
	RollbarToken: "rollbar-token",
	TMDBAPIKey:   "tmdb-key",
}

func TestSubstituteSecrets(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single token",
			input:    `const clientId = '@@clientId';`,
			expected: `const clientId = 'client-id';`,
		},
		{
			name:     "all tokens",
			input:    "@@clientId @@clientSecret @@rollbarToken @@tmdbApiKey",
			expected: "client-id client-secret rollbar-token tmdb-key",
		},
		{
			name:     "order independent",
			input:    "@@tmdbApiKey @@rollbarToken @@clientSecret @@clientId",
			expected: "tmdb-key rollbar-token client-secret client-id",
		},
		{
			name:     "repeated token",
			input:    "@@clientId/@@clientId",
			expected: "client-id/client-id",
		},
		{
			name:     "no tokens untouched",
			input:    "export const api = 'https://api.trakt.tv';",
			expected: "export const api = 'https://api.trakt.tv';",
		},
		{
			name:     "unknown token untouched",
			input:    "@@somethingElse",
			expected: "@@somethingElse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, SubstituteSecrets(tt.input, testSecrets))
		})
	}
}

func TestSubstituteSecretsEmptyProfile(t *testing.T) {
	out := SubstituteSecrets("id=@@clientId", buildcfg.Secrets{})
	require.Equal(t, "id=", out)
}
