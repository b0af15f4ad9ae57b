package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/oauth2"

	apperrors "github.com/naotama2002/codex-login-go/internal/errors"
)

// Version is the CLI version; overridden at build time with -ldflags.
var Version = "0.1.0"

const (
	// DefaultIssuer is the identity provider base URL
	DefaultIssuer = "https://auth.openai.com"
	// DefaultClientID is the public client registered for the CLI
	DefaultClientID = "app_EMoamEEZ73f0CkXaXp7hrann"
	// DefaultScope is the space separated scope requested at authorization
	DefaultScope = "openid profile email offline_access"
	// DefaultRedirectURI must match the client's registered redirect URI
	DefaultRedirectURI = "http://localhost:1455/auth/callback"
	// DefaultCallbackAddr is where the loopback callback listener binds
	DefaultCallbackAddr = "127.0.0.1:1455"
)

// Config holds the identity provider and loopback settings for a login flow
type Config struct {
	Issuer       string `env:"CODEX_LOGIN_ISSUER"        envDefault:"https://auth.openai.com"`
	ClientID     string `env:"CODEX_LOGIN_CLIENT_ID"     envDefault:"app_EMoamEEZ73f0CkXaXp7hrann"`
	Scope        string `env:"CODEX_LOGIN_SCOPE"         envDefault:"openid profile email offline_access"`
	RedirectURI  string `env:"CODEX_LOGIN_REDIRECT_URI"  envDefault:"http://localhost:1455/auth/callback"`
	CallbackAddr string `env:"CODEX_LOGIN_CALLBACK_ADDR" envDefault:"127.0.0.1:1455"`
}

// Default returns the fixed configuration of the CLI
func Default() *Config {
	return &Config{
		Issuer:       DefaultIssuer,
		ClientID:     DefaultClientID,
		Scope:        DefaultScope,
		RedirectURI:  DefaultRedirectURI,
		CallbackAddr: DefaultCallbackAddr,
	}
}

// FromEnv loads the configuration, letting CODEX_LOGIN_* variables override
// the defaults. With no variables set it equals Default().
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ConfigurationError, "parse env")
	}
	cfg.Issuer = strings.TrimRight(cfg.Issuer, "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every field is usable
func (c *Config) Validate() error {
	switch {
	case c.Issuer == "":
		return apperrors.New(apperrors.ConfigurationError, "issuer is empty")
	case c.ClientID == "":
		return apperrors.New(apperrors.ConfigurationError, "client id is empty")
	case c.Scope == "":
		return apperrors.New(apperrors.ConfigurationError, "scope is empty")
	case c.CallbackAddr == "":
		return apperrors.New(apperrors.ConfigurationError, "callback address is empty")
	}

	u, err := url.Parse(c.RedirectURI)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ConfigurationError, "invalid redirect uri")
	}
	if u.Scheme != "http" || u.Host == "" {
		return apperrors.New(apperrors.ConfigurationError, "redirect uri must be an absolute http URL").
			WithDetails(c.RedirectURI)
	}
	return nil
}

// AuthorizeEndpoint returns {issuer}/oauth/authorize
func (c *Config) AuthorizeEndpoint() string {
	return fmt.Sprintf("%s/oauth/authorize", c.Issuer)
}

// TokenEndpoint returns {issuer}/oauth/token
func (c *Config) TokenEndpoint() string {
	return fmt.Sprintf("%s/oauth/token", c.Issuer)
}

// Endpoint describes the provider for golang.org/x/oauth2 consumers
func (c *Config) Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   c.AuthorizeEndpoint(),
		TokenURL:  c.TokenEndpoint(),
		AuthStyle: oauth2.AuthStyleInParams,
	}
}
