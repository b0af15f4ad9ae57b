package auth

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naotama2002/codex-login-go/internal/config"
	apperrors "github.com/naotama2002/codex-login-go/internal/errors"
)

// FlowState is a step of the login flow. Steps only move forward; any
// failure ends in FlowFailed.
type FlowState int

const (
	FlowIdle FlowState = iota
	FlowURLBuilt
	FlowBrowserOpened
	FlowListenerBound
	FlowCodeReceived
	FlowTokensExchanged
	FlowFailed
)

func (s FlowState) String() string {
	switch s {
	case FlowIdle:
		return "idle"
	case FlowURLBuilt:
		return "url_built"
	case FlowBrowserOpened:
		return "browser_opened"
	case FlowListenerBound:
		return "listener_bound"
	case FlowCodeReceived:
		return "code_received"
	case FlowTokensExchanged:
		return "tokens_exchanged"
	case FlowFailed:
		return "failed"
	default:
		return fmt.Sprintf("flow_state(%d)", int(s))
	}
}

// OAuthFlow runs one interactive authorization code login
type OAuthFlow struct {
	cfg         *config.Config
	exchanger   *TokenExchanger
	openBrowser BrowserOpener
	noBrowser   bool
	logger      *zap.Logger
	out         io.Writer
	state       FlowState
}

// FlowOption customizes an OAuthFlow
type FlowOption func(*OAuthFlow)

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) FlowOption {
	return func(f *OAuthFlow) { f.logger = logger }
}

// WithBrowserOpener replaces the system browser launcher
func WithBrowserOpener(opener BrowserOpener) FlowOption {
	return func(f *OAuthFlow) { f.openBrowser = opener }
}

// WithoutBrowser prints the authorization URL and leaves opening it to the user
func WithoutBrowser() FlowOption {
	return func(f *OAuthFlow) { f.noBrowser = true }
}

// WithExchanger replaces the token exchanger
func WithExchanger(exchanger *TokenExchanger) FlowOption {
	return func(f *OAuthFlow) { f.exchanger = exchanger }
}

// WithOutput sets where user-facing prompts are written; stderr by default
func WithOutput(w io.Writer) FlowOption {
	return func(f *OAuthFlow) { f.out = w }
}

// NewOAuthFlow creates a flow for cfg
func NewOAuthFlow(cfg *config.Config, opts ...FlowOption) *OAuthFlow {
	f := &OAuthFlow{
		cfg:         cfg,
		openBrowser: openBrowser,
		logger:      zap.NewNop(),
		out:         os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.exchanger == nil {
		f.exchanger = NewTokenExchanger(nil)
	}
	f.logger = f.logger.With(zap.String("flow_id", uuid.NewString()))
	return f
}

// State reports how far the flow got
func (f *OAuthFlow) State() FlowState {
	return f.state
}

func (f *OAuthFlow) transition(to FlowState) {
	f.logger.Debug("flow state changed", zap.Stringer("from", f.state), zap.Stringer("to", to))
	f.state = to
}

func (f *OAuthFlow) fail(err error) error {
	f.logger.Error("login flow failed",
		zap.Stringer("state", f.state),
		zap.String("error_type", string(apperrors.TypeOf(err))),
		zap.Error(err))
	f.state = FlowFailed
	return err
}

// Run executes the flow: build URL, open browser, bind listener, wait for the
// callback, exchange the code. Nothing is retried; the first failure ends the flow.
func (f *OAuthFlow) Run(ctx context.Context) (*TokenData, error) {
	if f.state != FlowIdle {
		return nil, apperrors.New(apperrors.ConfigurationError, "login flow already ran")
	}
	if err := f.cfg.Validate(); err != nil {
		return nil, f.fail(err)
	}

	redirectURI := f.cfg.RedirectURI
	verifier, authURL, err := BuildAuthorizationURL(redirectURI, f.cfg)
	if err != nil {
		return nil, f.fail(err)
	}
	f.transition(FlowURLBuilt)

	if f.noBrowser {
		fmt.Fprintf(f.out, "\n[OAuth] Open this URL in your browser:\n%s\n\n", authURL)
		f.logger.Info("browser launch skipped")
	} else {
		fmt.Fprintf(f.out, "\n[OAuth] Opening browser:\n%s\n\n", authURL)
		if err := f.openBrowser(authURL); err != nil {
			return nil, f.fail(apperrors.Wrap(err, apperrors.BrowserError, "failed to open browser"))
		}
	}
	f.transition(FlowBrowserOpened)

	listener, err := ListenForCallback(ctx, f.cfg.CallbackAddr)
	if err != nil {
		return nil, f.fail(err)
	}
	defer func() { _ = listener.Close() }()
	f.transition(FlowListenerBound)
	f.logger.Info("waiting for authorization code", zap.Stringer("addr", listener.Addr()))
	fmt.Fprintln(f.out, "[OAuth] Waiting for authorization code...")

	code, err := listener.WaitForCode(ctx)
	if err != nil {
		return nil, f.fail(err)
	}
	_ = listener.Close()
	if code == "" {
		return nil, f.fail(apperrors.New(apperrors.CallbackError, "callback request carried no authorization code"))
	}
	f.transition(FlowCodeReceived)

	tokens, err := f.exchanger.Exchange(ctx, code, verifier, redirectURI, f.cfg)
	if err != nil {
		return nil, f.fail(err)
	}
	f.transition(FlowTokensExchanged)
	f.logger.Info("login completed", zap.Bool("has_account_id", tokens.AccountID != ""))

	return tokens, nil
}

// RunOAuthFlow runs a login with the fixed configuration and returns the
// tokens, or nil when any step failed.
func RunOAuthFlow(ctx context.Context, opts ...FlowOption) *TokenData {
	tokens, err := NewOAuthFlow(config.Default(), opts...).Run(ctx)
	if err != nil {
		return nil
	}
	return tokens
}
