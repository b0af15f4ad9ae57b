package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/naotama2002/codex-login-go/internal/config"
	apperrors "github.com/naotama2002/codex-login-go/internal/errors"
	"github.com/naotama2002/codex-login-go/internal/httpclient"
)

// TokenExchanger trades an authorization code for tokens at the provider's token endpoint
type TokenExchanger struct {
	client *httpclient.Client
}

// NewTokenExchanger creates an exchanger; a nil client uses httpclient defaults
func NewTokenExchanger(client *httpclient.Client) *TokenExchanger {
	if client == nil {
		client = httpclient.New(nil)
	}
	return &TokenExchanger{client: client}
}

// Exchange posts the code and verifier to {issuer}/oauth/token. Any transport
// failure or a status other than 200 fails the exchange, as does a body
// without string id_token and access_token or an undecodable identity token.
// A missing account claim is tolerated and yields an empty AccountID.
func (e *TokenExchanger) Exchange(ctx context.Context, code, verifier, redirectURI string, cfg *config.Config) (*TokenData, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", cfg.ClientID)
	form.Set("code_verifier", verifier)

	resp, err := e.client.PostForm(ctx, cfg.TokenEndpoint(), form, nil)
	if resp != nil && resp.StatusCode != http.StatusOK {
		return nil, apperrors.FromHTTPStatus(resp.StatusCode, resp.String())
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.NetworkError, "token request failed")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(resp.BodyBytes, &payload); err != nil {
		return nil, apperrors.Wrap(err, apperrors.TokenResponseError, "failed to parse token response")
	}

	idToken, ok := payload["id_token"].(string)
	if !ok {
		return nil, apperrors.New(apperrors.TokenResponseError, "token response has no id_token string")
	}
	accessToken, ok := payload["access_token"].(string)
	if !ok {
		return nil, apperrors.New(apperrors.TokenResponseError, "token response has no access_token string")
	}
	refreshToken, _ := payload["refresh_token"].(string)

	claims, err := DecodeClaims(idToken)
	if err != nil {
		return nil, err
	}

	return &TokenData{
		IDToken:      idToken,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccountID:    AccountID(claims),
	}, nil
}
