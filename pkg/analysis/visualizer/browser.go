package visualizer

import (
	"io"

	"github.com/pkg/browser"
)

// Previewer opens a generated report for viewing
type Previewer interface {
	Preview(path string) error
}

// BrowserPreviewer opens files in the default browser
type BrowserPreviewer struct{}

// NewBrowserPreviewer creates a previewer. Output of the launched command is
// sent to out so it cannot interleave with a stdio transport.
func NewBrowserPreviewer(out io.Writer) *BrowserPreviewer {
	if out == nil {
		out = io.Discard
	}
	browser.Stdout = out
	browser.Stderr = out
	return &BrowserPreviewer{}
}

func (p *BrowserPreviewer) Preview(path string) error {
	return browser.OpenFile(path)
}

// NopPreviewer skips the preview
type NopPreviewer struct{}

func (NopPreviewer) Preview(string) error { return nil }
