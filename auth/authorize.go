package auth

import (
	"net/url"
	"strings"

	"github.com/naotama2002/codex-login-go/internal/config"
)

type queryParam struct {
	key   string
	value string
}

// BuildAuthorizationURL generates a PKCE pair and returns its verifier together
// with the provider's authorize URL. The verifier doubles as the state value.
// Parameters are emitted in a fixed order.
func BuildAuthorizationURL(redirectURI string, cfg *config.Config) (string, string, error) {
	codes, err := GeneratePKCE()
	if err != nil {
		return "", "", err
	}

	params := []queryParam{
		{"response_type", "code"},
		{"client_id", cfg.ClientID},
		{"redirect_uri", redirectURI},
		{"scope", cfg.Scope},
		{"code_challenge", codes.CodeChallenge},
		{"code_challenge_method", CodeChallengeMethod},
		{"state", codes.CodeVerifier},
		{"id_token_add_organizations", "true"},
		{"codex_cli_simplified_flow", "true"},
	}

	pairs := make([]string, 0, len(params))
	for _, p := range params {
		pairs = append(pairs, p.key+"="+encodeQueryValue(p.value))
	}

	return codes.CodeVerifier, cfg.AuthorizeEndpoint() + "?" + strings.Join(pairs, "&"), nil
}

// encodeQueryValue percent-encodes everything outside the RFC 3986 unreserved
// set. Spaces become %20.
func encodeQueryValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
