package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/cli/browser"
)

// ErrClipboardUnavailable is returned when no system clipboard tool exists.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard writes text for the user to paste elsewhere.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Browser opens a URL for the user.
type Browser interface {
	OpenURL(url string) error
}

// SystemClipboard uses the host clipboard (pbcopy, xclip, wl-copy, ...).
type SystemClipboard struct{}

// WriteText copies text, giving up when ctx ends.
func (SystemClipboard) WriteText(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	done := make(chan error, 1)
	go func() { done <- clipboard.WriteAll(text) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SystemBrowser opens URLs with the desktop's default browser.
type SystemBrowser struct{}

// OpenURL launches the browser.
func (SystemBrowser) OpenURL(url string) error {
	return browser.OpenURL(url)
}

// ShareResult is the outcome of copying a shareable link. URL is always set
// when the link could be built, so a failed copy can still be offered.
type ShareResult struct {
	URL string
	Err error
}

// Copied reports whether the link reached the clipboard.
func (r ShareResult) Copied() bool { return r.URL != "" && r.Err == nil }

// CopyShareURL builds the shareable link and writes it to cb.
func (s *Session) CopyShareURL(ctx context.Context, cb Clipboard) ShareResult {
	link, err := s.ShareURL()
	if err != nil {
		return ShareResult{Err: err}
	}
	return CopyLink(ctx, cb, link)
}

// CopyLink writes an already-built link to cb. It touches no session state,
// so it can run off the UI goroutine.
func CopyLink(ctx context.Context, cb Clipboard, link string) ShareResult {
	if err := cb.WriteText(ctx, link); err != nil {
		return ShareResult{URL: link, Err: fmt.Errorf("copying link: %w", err)}
	}
	return ShareResult{URL: link}
}
