package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// PKCECodes holds the verifier/challenge pair of one login flow.
// The verifier lives only in memory and is never logged.
type PKCECodes struct {
	CodeVerifier  string
	CodeChallenge string
}

// TokenData is the result of a successful login
type TokenData struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// AccountID is empty when the id token carries no account claim
	AccountID string `json:"account_id"`
}

// Claims decodes the identity token's payload
func (t *TokenData) Claims() (jwt.MapClaims, error) {
	return DecodeClaims(t.IDToken)
}

// Token converts the result for use with golang.org/x/oauth2 clients.
// The identity token is available through Extra("id_token").
func (t *TokenData) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: t.RefreshToken,
	}
	return tok.WithExtra(map[string]interface{}{
		"id_token":   t.IDToken,
		"account_id": t.AccountID,
	})
}
