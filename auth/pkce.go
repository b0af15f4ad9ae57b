package auth

import (
	"crypto/rand"
	"encoding/hex"
	"io"

	"golang.org/x/oauth2"

	apperrors "github.com/naotama2002/codex-login-go/internal/errors"
)

const (
	// verifierEntropyBytes is the number of random bytes behind a code verifier.
	// Hex encoding doubles it to 128 characters, the RFC 7636 maximum.
	verifierEntropyBytes = 64

	// CodeChallengeMethod is the only challenge method the client sends
	CodeChallengeMethod = "S256"
)

// randReader is swapped in tests to simulate a failing random source
var randReader io.Reader = rand.Reader

// GeneratePKCE generates a fresh code verifier and its S256 challenge.
// The verifier is the lowercase hex encoding of 64 random bytes.
func GeneratePKCE() (*PKCECodes, error) {
	b := make([]byte, verifierEntropyBytes)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return nil, apperrors.Wrap(err, apperrors.RandomnessError, "failed to read random bytes for code verifier")
	}

	verifier := hex.EncodeToString(b)
	return &PKCECodes{
		CodeVerifier:  verifier,
		CodeChallenge: ComputeCodeChallenge(verifier),
	}, nil
}

// ComputeCodeChallenge computes the S256 code challenge from a code verifier
// per RFC 7636 Section 4.2: BASE64URL(SHA256(code_verifier))
func ComputeCodeChallenge(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}
