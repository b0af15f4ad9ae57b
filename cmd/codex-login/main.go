package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naotama2002/codex-login-go/auth"
	"github.com/naotama2002/codex-login-go/internal/config"
	"github.com/naotama2002/codex-login-go/internal/logger"
	"github.com/naotama2002/codex-login-go/internal/utils"
)

type options struct {
	noBrowser bool
	timeout   time.Duration
	output    string
	logLevel  string
	logFormat string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "codex-login",
		Short:         "Sign in through the browser and print the issued tokens",
		Version:       config.Version,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&opts.noBrowser, "no-browser", false, "print the authorization URL instead of opening a browser")
	fs.DurationVar(&opts.timeout, "timeout", 0, "give up after this long (0 waits until the login completes)")
	fs.StringVarP(&opts.output, "output", "o", "json", "result format: json|text")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	fs.StringVar(&opts.logFormat, "log-format", "console", "log format: console|json")
	return cmd
}

func runLogin(ctx context.Context, stdout, stderr io.Writer, opts options) error {
	if opts.output != "json" && opts.output != "text" {
		return fmt.Errorf("invalid output format %q, expected json|text", opts.output)
	}
	if err := logger.Init(logger.Config{Level: opts.logLevel, Format: opts.logFormat}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	ctx, stop := utils.SignalContext(ctx, logger.L())
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	flowOpts := []auth.FlowOption{
		auth.WithLogger(logger.L()),
		auth.WithOutput(stderr),
	}
	if opts.noBrowser {
		flowOpts = append(flowOpts, auth.WithoutBrowser())
	}

	tokens, err := auth.NewOAuthFlow(cfg, flowOpts...).Run(ctx)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return writeResult(stdout, tokens, opts.output)
}

func writeResult(w io.Writer, tokens *auth.TokenData, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tokens)
	}

	fmt.Fprintln(w, "Login successful")
	accountID := tokens.AccountID
	if accountID == "" {
		accountID = "(none)"
	}
	fmt.Fprintf(w, "  Account ID: %s\n", accountID)

	claims, err := tokens.Claims()
	if err != nil {
		logger.L().Warn("could not decode id token claims", zap.Error(err))
		return nil
	}
	if email := auth.Email(claims); email != "" {
		fmt.Fprintf(w, "  Email:      %s\n", email)
	}
	if exp, ok := auth.ExpiresAt(claims); ok {
		fmt.Fprintf(w, "  Expires:    %s\n", exp.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(w, "  Refresh token issued: %t\n", tokens.RefreshToken != "")
	return nil
}
