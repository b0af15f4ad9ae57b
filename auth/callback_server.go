package auth

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	apperrors "github.com/naotama2002/codex-login-go/internal/errors"
)

const callbackSuccessBody = "<html><body><h1>Login Successful</h1>You can close this window.</body></html>"

// CallbackListener is a one-shot loopback listener for the OAuth redirect.
// It handles exactly one connection and never loops over further callbacks.
type CallbackListener struct {
	listener net.Listener
}

// ListenForCallback binds the loopback address that the redirect URI points at
func ListenForCallback(ctx context.Context, addr string) (*CallbackListener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ListenerError, "failed to bind callback listener").WithDetails(addr)
	}
	return &CallbackListener{listener: ln}, nil
}

// Addr returns the bound address
func (l *CallbackListener) Addr() net.Addr {
	return l.listener.Addr()
}

// Close releases the port
func (l *CallbackListener) Close() error {
	return l.listener.Close()
}

// WaitForCode blocks until the first connection arrives, reads its request
// head, answers with the static success page and returns the code query
// parameter. The code is "" when the request carries none; callers decide
// whether that is fatal. Cancelling ctx aborts the wait.
func (l *CallbackListener) WaitForCode(ctx context.Context) (string, error) {
	stopAccept := context.AfterFunc(ctx, func() { _ = l.listener.Close() })
	defer stopAccept()

	conn, err := l.listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", apperrors.Wrap(err, apperrors.ListenerError, "failed to accept callback connection")
	}
	defer func() { _ = conn.Close() }()

	stopConn := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stopConn()

	lines := readRequestHead(bufio.NewReader(conn))
	if len(lines) == 0 {
		return "", apperrors.New(apperrors.CallbackError, "callback connection closed before sending a request line")
	}

	code := ExtractQueryCode(lines[0])

	response := fmt.Sprintf(
		"HTTP/1.1 200 OK\r\nContent-Type: text/html\r\nContent-Length: %d\r\n\r\n%s",
		len(callbackSuccessBody),
		callbackSuccessBody,
	)
	if _, err := conn.Write([]byte(response)); err != nil {
		return "", apperrors.Wrap(err, apperrors.ListenerError, "failed to write callback response")
	}

	return code, nil
}

// readRequestHead returns the request line and headers, stopping at the
// blank line that ends them or at the first read error. The body is never read.
func readRequestHead(r *bufio.Reader) []string {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return lines
		}
		lines = append(lines, line)
		if err != nil {
			return lines
		}
	}
}

// ExtractQueryCode pulls the code parameter out of an HTTP request line such
// as "GET /auth/callback?code=ABC HTTP/1.1". The first code pair wins and its
// value is returned as sent, without percent-decoding. Malformed lines yield "".
func ExtractQueryCode(requestLine string) string {
	parts := strings.Fields(requestLine)
	if len(parts) < 2 {
		return ""
	}

	_, query, ok := strings.Cut(parts[1], "?")
	if !ok {
		return ""
	}

	for _, kv := range strings.Split(query, "&") {
		pair := strings.Split(kv, "=")
		if pair[0] == "code" {
			if len(pair) < 2 {
				return ""
			}
			return pair[1]
		}
	}
	return ""
}
