// Package browser opens the dashboard in the user's default browser.
package browser

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	pkgbrowser "github.com/pkg/browser"
)

// ErrNotHTTP is returned for URLs the dashboard never serves.
var ErrNotHTTP = errors.New("browser: only http and https URLs are opened")

// openURL launches the platform opener; tests replace it.
var openURL = pkgbrowser.OpenURL

func init() {
	// the opener's own chatter would interleave with the access log
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
}

// Open launches the default browser on rawURL. Only absolute http(s) URLs are accepted.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrNotHTTP, rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrNotHTTP, rawURL)
	}
	if err := openURL(u.String()); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}
