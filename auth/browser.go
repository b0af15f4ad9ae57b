package auth

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/pkg/browser"
)

// BrowserOpener launches the user's browser at a URL
type BrowserOpener func(rawURL string) error

// openBrowser opens the specified URL in the default browser
func openBrowser(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("only http and https URLs are allowed")
	}

	return browser.OpenURL(rawURL)
}
