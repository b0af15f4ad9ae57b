package auth

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/naotama2002/codex-login-go/internal/errors"
)

const (
	// AuthClaimNamespace holds the provider's custom auth claims
	AuthClaimNamespace = "https://api.openai.com/auth"
	// AccountIDClaim is the account identifier inside AuthClaimNamespace
	AccountIDClaim = "chatgpt_account_id"
)

// segmentDecoder right-pads a segment with '=' before base64url decoding it
var segmentDecoder = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeClaims returns the JSON payload of an identity token. The signature is
// not verified: the token arrives directly from the token endpoint over TLS.
func DecodeClaims(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, apperrors.New(apperrors.IDTokenError, "identity token is malformed").
			WithDetails(fmt.Sprintf("expected 3 segments, got %d", len(parts)))
	}

	payload, err := segmentDecoder.DecodeSegment(parts[1])
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.IDTokenError, "failed to decode identity token payload")
	}

	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, apperrors.Wrap(err, apperrors.IDTokenError, "identity token payload is not JSON")
	}

	// Valid JSON that is not an object carries no claims.
	claims, ok := decoded.(map[string]interface{})
	if !ok {
		return jwt.MapClaims{}, nil
	}
	return jwt.MapClaims(claims), nil
}

// AccountID reads the namespaced account claim. Missing or non-string values
// yield "".
func AccountID(claims jwt.MapClaims) string {
	ns, ok := claims[AuthClaimNamespace].(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := ns[AccountIDClaim].(string)
	return id
}

// Email returns the email claim, or "" when absent
func Email(claims jwt.MapClaims) string {
	email, _ := claims["email"].(string)
	return email
}

// ExpiresAt returns the exp claim. ok is false when it is absent or unreadable.
func ExpiresAt(claims jwt.MapClaims) (time.Time, bool) {
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
