package auth

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naotama2002/codex-login-go/internal/config"
)

func TestBuildAuthorizationURL(t *testing.T) {
	cfg := config.Default()

	verifier, authURL, err := BuildAuthorizationURL(cfg.RedirectURI, cfg)
	require.NoError(t, err)

	prefix := "https://auth.openai.com/oauth/authorize?"
	require.True(t, strings.HasPrefix(authURL, prefix), "unexpected URL %s", authURL)

	rawQuery := strings.TrimPrefix(authURL, prefix)
	pairs := strings.Split(rawQuery, "&")
	require.Len(t, pairs, 9)

	wantKeys := []string{
		"response_type",
		"client_id",
		"redirect_uri",
		"scope",
		"code_challenge",
		"code_challenge_method",
		"state",
		"id_token_add_organizations",
		"codex_cli_simplified_flow",
	}
	for i, pair := range pairs {
		key, _, ok := strings.Cut(pair, "=")
		require.True(t, ok, "pair %q has no '='", pair)
		assert.Equal(t, wantKeys[i], key, "parameter %d out of order", i)
	}

	q, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, cfg.ClientID, q.Get("client_id"))
	assert.Equal(t, "http://localhost:1455/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "openid profile email offline_access", q.Get("scope"))
	assert.Equal(t, ComputeCodeChallenge(verifier), q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, verifier, q.Get("state"))
	assert.Equal(t, "true", q.Get("id_token_add_organizations"))
	assert.Equal(t, "true", q.Get("codex_cli_simplified_flow"))
}

func TestBuildAuthorizationURLEncoding(t *testing.T) {
	cfg := config.Default()

	_, authURL, err := BuildAuthorizationURL(cfg.RedirectURI, cfg)
	require.NoError(t, err)

	assert.Contains(t, authURL, "redirect_uri=http%3A%2F%2Flocalhost%3A1455%2Fauth%2Fcallback")
	assert.Contains(t, authURL, "scope=openid%20profile%20email%20offline_access")
	assert.NotContains(t, authURL, "+")
}

func TestBuildAuthorizationURLCustomIssuer(t *testing.T) {
	cfg := config.Default()
	cfg.Issuer = "http://127.0.0.1:8080"
	cfg.ClientID = "app id/1"

	_, authURL, err := BuildAuthorizationURL("http://localhost:9000/cb", cfg)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(authURL, "http://127.0.0.1:8080/oauth/authorize?response_type=code&client_id=app%20id%2F1&"))
	assert.Contains(t, authURL, "redirect_uri=http%3A%2F%2Flocalhost%3A9000%2Fcb")
}

func TestEncodeQueryValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc-._~XYZ019", "abc-._~XYZ019"},
		{"a b", "a%20b"},
		{"a+b", "a%2Bb"},
		{"k=v&x", "k%3Dv%26x"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := encodeQueryValue(tt.in); got != tt.want {
			t.Errorf("encodeQueryValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
